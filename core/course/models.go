package course

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/zuritech/elimu/core"
)

// Levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Level       string    `json:"level"`
	Videos      []Video   `json:"videos,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type Video struct {
	ID        string    `json:"id"`
	CourseID  string    `json:"course_id"`
	Title     string    `json:"title"`
	VideoURL  string    `json:"video_url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// Progress is a user's completion state for a single course.
type Progress struct {
	CourseID        string  `json:"course_id"`
	CompletedVideos int     `json:"completed_videos"`
	TotalVideos     int     `json:"total_videos"`
	Percentage      float64 `json:"percentage"`
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Level       string `json:"level" validate:"required,oneof=beginner intermediate advanced"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.Level = core.CleanString(nc.Level, true /* lower */)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
type UpdateCourse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Level       string `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
}

func (uc *UpdateCourse) Validate(orig Course, validate *validator.Validate) error {
	if title := core.CleanString(uc.Title); title != "" {
		uc.Title = title
	} else {
		uc.Title = orig.Title
	}
	if desc := core.CleanString(uc.Description); desc != "" {
		uc.Description = desc
	} else {
		uc.Description = orig.Description
	}
	if level := core.CleanString(uc.Level, true /* lower */); level != "" {
		uc.Level = level
	} else {
		uc.Level = orig.Level
	}
	return validate.Struct(uc)
}

// NewVideo contains information needed to attach a new Video to a Course.
type NewVideo struct {
	Title    string `json:"title" validate:"required"`
	VideoURL string `json:"video_url" validate:"required,url"`
	Position int    `json:"position" validate:"omitempty,min=0"`
}

func (nv *NewVideo) Validate(validate *validator.Validate) error {
	nv.Title = core.CleanString(nv.Title)
	nv.VideoURL = core.CleanString(nv.VideoURL)
	return validate.Struct(nv)
}

// UpdateVideo defines what information may be provided to modify an existing Video.
type UpdateVideo struct {
	Title    string `json:"title"`
	VideoURL string `json:"video_url" validate:"omitempty,url"`
	Position *int   `json:"position" validate:"omitempty,min=0"`
}

func (uv *UpdateVideo) Validate(orig Video, validate *validator.Validate) error {
	if title := core.CleanString(uv.Title); title != "" {
		uv.Title = title
	} else {
		uv.Title = orig.Title
	}
	if u := core.CleanString(uv.VideoURL); u != "" {
		uv.VideoURL = u
	} else {
		uv.VideoURL = orig.VideoURL
	}
	if uv.Position == nil {
		uv.Position = &orig.Position
	}
	return validate.Struct(uv)
}

type QueryFilter struct {
	Search string `query:"search"`
	Level  string `query:"level"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Level == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Level = core.CleanString(qf.Level, true /* lower */)
}
