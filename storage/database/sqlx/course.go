package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/course"
)

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

type (
	// dbCourse maps a course row.
	dbCourse struct {
		ID          string    `db:"id"`
		Title       string    `db:"title"`
		Description string    `db:"description"`
		Level       string    `db:"level"`
		CreatedAt   time.Time `db:"created_at"`
		UpdatedAt   time.Time `db:"updated_at"`
	}

	// dbVideo maps a video row.
	dbVideo struct {
		ID        string    `db:"id"`
		CourseID  string    `db:"course_id"`
		Title     string    `db:"title"`
		VideoURL  string    `db:"video_url"`
		Position  int       `db:"position"`
		CreatedAt time.Time `db:"created_at"`
		UpdatedAt time.Time `db:"updated_at"`
	}
)

func (repo courseRepository) unmarshalCourse(c dbCourse) course.Course {
	return course.Course{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Level:       c.Level,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (repo courseRepository) unmarshalVideo(v dbVideo) course.Video {
	return course.Video{
		ID:        v.ID,
		CourseID:  v.CourseID,
		Title:     v.Title,
		VideoURL:  v.VideoURL,
		Position:  v.Position,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func (repo courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()
	const query = `
INSERT INTO course (id, title, description, level, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := repo.db.ExecContext(ctx, query, crs.ID, crs.Title, crs.Description, crs.Level, crs.CreatedAt.UTC(), crs.UpdatedAt.UTC()); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

func (repo courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Course{}, course.ErrNotFound
	}

	var c dbCourse
	if err := repo.db.GetContext(ctx, &c, `SELECT * FROM course WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "finding course by ID")
	}
	return repo.unmarshalCourse(c), nil
}

func (repo courseRepository) FilterCourses(ctx context.Context, filter *course.QueryFilter, orderings []core.DBOrdering) ([]course.Course, error) {
	query := `SELECT * FROM course`
	var conds []string
	var args []interface{}

	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Search != "" {
			p := arg("%" + filter.Search + "%")
			conds = append(conds, fmt.Sprintf("(title ILIKE %[1]s OR description ILIKE %[1]s)", p))
		}
		if filter.Level != "" {
			conds = append(conds, fmt.Sprintf("level = %s", arg(filter.Level)))
		}
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	if len(orderings) > 0 {
		orderList := make([]string, 0, len(orderings))
		for _, ord := range orderings {
			orderList = append(orderList, ord.String())
		}
		query += " ORDER BY " + strings.Join(orderList, ", ")
	} else {
		query += " ORDER BY created_at DESC"
	}

	var rows []dbCourse
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}

	courses := make([]course.Course, 0, len(rows))
	for _, c := range rows {
		courses = append(courses, repo.unmarshalCourse(c))
	}
	return courses, nil
}

func (repo courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	orig, err := repo.GetCourseByID(ctx, crs.ID)
	if err != nil {
		return course.Course{}, err
	}

	// only save set fields
	if crs.Title != "" {
		orig.Title = crs.Title
	}
	if crs.Description != "" {
		orig.Description = crs.Description
	}
	if crs.Level != "" {
		orig.Level = crs.Level
	}
	orig.UpdatedAt = crs.UpdatedAt

	const query = `UPDATE course SET title = $1, description = $2, level = $3, updated_at = $4 WHERE id = $5`
	if _, err = repo.db.ExecContext(ctx, query, orig.Title, orig.Description, orig.Level, orig.UpdatedAt.UTC(), orig.ID); err != nil {
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	return orig, nil
}

func (repo courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM course WHERE id = ANY($1)`, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting courses")
	}
	return nil
}

func (repo courseRepository) CreateVideo(ctx context.Context, vid course.Video) (course.Video, error) {
	vid.ID = uuid.New().String()
	const query = `
INSERT INTO video (id, course_id, title, video_url, "position", created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := repo.db.ExecContext(ctx, query, vid.ID, vid.CourseID, vid.Title, vid.VideoURL, vid.Position, vid.CreatedAt.UTC(), vid.UpdatedAt.UTC()); err != nil {
		return course.Video{}, errors.Wrap(err, "inserting video")
	}
	return vid, nil
}

func (repo courseRepository) GetVideoByID(ctx context.Context, id string) (course.Video, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Video{}, course.ErrVideoNotFound
	}

	var v dbVideo
	if err := repo.db.GetContext(ctx, &v, `SELECT * FROM video WHERE id = $1`, id); err != nil {
		if err == sql.ErrNoRows {
			return course.Video{}, course.ErrVideoNotFound
		}
		return course.Video{}, errors.Wrap(err, "finding video by ID")
	}
	return repo.unmarshalVideo(v), nil
}

func (repo courseRepository) QueryVideosByCourseID(ctx context.Context, courseID string) ([]course.Video, error) {
	var rows []dbVideo
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM video WHERE course_id = $1 ORDER BY "position", created_at`, courseID); err != nil {
		return nil, errors.Wrap(err, "querying videos")
	}

	videos := make([]course.Video, 0, len(rows))
	for _, v := range rows {
		videos = append(videos, repo.unmarshalVideo(v))
	}
	return videos, nil
}

func (repo courseRepository) UpdateVideo(ctx context.Context, vid course.Video) (course.Video, error) {
	orig, err := repo.GetVideoByID(ctx, vid.ID)
	if err != nil {
		return course.Video{}, err
	}

	// only save set fields
	if vid.Title != "" {
		orig.Title = vid.Title
	}
	if vid.VideoURL != "" {
		orig.VideoURL = vid.VideoURL
	}
	if vid.Position != 0 {
		orig.Position = vid.Position
	}
	orig.UpdatedAt = vid.UpdatedAt

	const query = `UPDATE video SET title = $1, video_url = $2, "position" = $3, updated_at = $4 WHERE id = $5`
	if _, err = repo.db.ExecContext(ctx, query, orig.Title, orig.VideoURL, orig.Position, orig.UpdatedAt.UTC(), orig.ID); err != nil {
		return course.Video{}, errors.Wrap(err, "updating video")
	}
	return orig, nil
}

func (repo courseRepository) DeleteVideosByID(ctx context.Context, ids ...string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM video WHERE id = ANY($1)`, pq.StringArray(ids)); err != nil {
		return errors.Wrap(err, "deleting videos")
	}
	return nil
}

func (repo courseRepository) MarkVideoComplete(ctx context.Context, userID, videoID string) error {
	const query = `
INSERT INTO video_completion (user_id, video_id)
VALUES ($1, $2)
ON CONFLICT (user_id, video_id) DO NOTHING`
	if _, err := repo.db.ExecContext(ctx, query, userID, videoID); err != nil {
		return errors.Wrap(err, "marking video complete")
	}
	return nil
}

func (repo courseRepository) UnmarkVideoComplete(ctx context.Context, userID, videoID string) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM video_completion WHERE user_id = $1 AND video_id = $2`, userID, videoID); err != nil {
		return errors.Wrap(err, "unmarking video complete")
	}
	return nil
}

func (repo courseRepository) CompletedVideoIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	const query = `
SELECT vc.video_id
FROM video_completion vc
         JOIN video v ON v.id = vc.video_id
WHERE vc.user_id = $1
  AND v.course_id = $2`

	var ids []string
	if err := repo.db.SelectContext(ctx, &ids, query, userID, courseID); err != nil {
		return nil, errors.Wrap(err, "querying completed videos")
	}
	return ids, nil
}
