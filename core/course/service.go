package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
)

var (
	// errors
	ErrNotFound      = errors.New("course not found")
	ErrVideoNotFound = errors.New("video not found")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		// FilterCourses applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Course.Title or Course.Description.
		FilterCourses(ctx context.Context, filter *QueryFilter, orderings []core.DBOrdering) ([]Course, error)
		UpdateCourse(ctx context.Context, crs Course) (Course, error)
		// DeleteCoursesByID cascades to the course's videos, quizzes and completions.
		DeleteCoursesByID(ctx context.Context, ids ...string) error

		CreateVideo(ctx context.Context, vid Video) (Video, error)
		GetVideoByID(ctx context.Context, id string) (Video, error)
		QueryVideosByCourseID(ctx context.Context, courseID string) ([]Video, error)
		UpdateVideo(ctx context.Context, vid Video) (Video, error)
		DeleteVideosByID(ctx context.Context, ids ...string) error

		MarkVideoComplete(ctx context.Context, userID, videoID string) error
		UnmarkVideoComplete(ctx context.Context, userID, videoID string) error
		CompletedVideoIDs(ctx context.Context, userID, courseID string) ([]string, error)
	}

	ServiceInterface interface {
		Create(nc NewCourse) (Course, error)
		GetByID(id string) (Course, error)
		Query(filter *QueryFilter, orderings []core.DBOrdering) ([]Course, error)
		Update(id string, uc UpdateCourse) (Course, error)
		Delete(ids ...string) error

		AddVideo(courseID string, nv NewVideo) (Video, error)
		GetVideoByID(id string) (Video, error)
		UpdateVideo(id string, uv UpdateVideo) (Video, error)
		DeleteVideos(ids ...string) error

		CompleteVideo(userID, videoID string) error
		UncompleteVideo(userID, videoID string) error
		GetProgress(userID, courseID string) (Progress, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) *service {
	return &service{repo: repo}
}

func (svc *service) Create(nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Title:       nc.Title,
		Description: nc.Description,
		Level:       nc.Level,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCourse(context.Background(), crs)
}

func (svc *service) GetByID(id string) (Course, error) {
	ctx := context.Background()
	crs, err := svc.repo.GetCourseByID(ctx, id)
	if err != nil {
		return Course{}, err
	}
	if crs.Videos, err = svc.repo.QueryVideosByCourseID(ctx, crs.ID); err != nil {
		return Course{}, errors.Wrap(err, "querying course videos")
	}
	return crs, nil
}

func (svc *service) Query(filter *QueryFilter, orderings []core.DBOrdering) ([]Course, error) {
	return svc.repo.FilterCourses(context.Background(), filter, orderings)
}

func (svc *service) Update(id string, uc UpdateCourse) (Course, error) {
	crs := Course{
		ID:          id,
		Title:       uc.Title,
		Description: uc.Description,
		Level:       uc.Level,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateCourse(context.Background(), crs)
}

func (svc *service) Delete(ids ...string) error {
	return svc.repo.DeleteCoursesByID(context.Background(), ids...)
}

func (svc *service) AddVideo(courseID string, nv NewVideo) (Video, error) {
	ctx := context.Background()
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return Video{}, err
	}
	now := time.Now().UTC()
	vid := Video{
		CourseID:  courseID,
		Title:     nv.Title,
		VideoURL:  nv.VideoURL,
		Position:  nv.Position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateVideo(ctx, vid)
}

func (svc *service) GetVideoByID(id string) (Video, error) {
	return svc.repo.GetVideoByID(context.Background(), id)
}

func (svc *service) UpdateVideo(id string, uv UpdateVideo) (Video, error) {
	vid := Video{
		ID:        id,
		Title:     uv.Title,
		VideoURL:  uv.VideoURL,
		UpdatedAt: time.Now().UTC(),
	}
	if uv.Position != nil {
		vid.Position = *uv.Position
	}
	return svc.repo.UpdateVideo(context.Background(), vid)
}

func (svc *service) DeleteVideos(ids ...string) error {
	return svc.repo.DeleteVideosByID(context.Background(), ids...)
}

func (svc *service) CompleteVideo(userID, videoID string) error {
	ctx := context.Background()
	if _, err := svc.repo.GetVideoByID(ctx, videoID); err != nil {
		return err
	}
	return svc.repo.MarkVideoComplete(ctx, userID, videoID)
}

func (svc *service) UncompleteVideo(userID, videoID string) error {
	return svc.repo.UnmarkVideoComplete(context.Background(), userID, videoID)
}

func (svc *service) GetProgress(userID, courseID string) (Progress, error) {
	ctx := context.Background()
	if _, err := svc.repo.GetCourseByID(ctx, courseID); err != nil {
		return Progress{}, err
	}
	vids, err := svc.repo.QueryVideosByCourseID(ctx, courseID)
	if err != nil {
		return Progress{}, errors.Wrap(err, "querying course videos")
	}
	done, err := svc.repo.CompletedVideoIDs(ctx, userID, courseID)
	if err != nil {
		return Progress{}, errors.Wrap(err, "querying completed videos")
	}

	prog := Progress{
		CourseID:        courseID,
		CompletedVideos: len(done),
		TotalVideos:     len(vids),
	}
	if prog.TotalVideos > 0 {
		prog.Percentage = float64(prog.CompletedVideos) / float64(prog.TotalVideos) * 100
	}
	return prog, nil
}
