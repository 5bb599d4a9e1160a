package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/zuritech/elimu/core"
	"github.com/zuritech/elimu/core/course"
)

type courseRepository struct {
	db *DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	crs.ID = uuid.New().String()
	repo.db.courses[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) FilterCourses(ctx context.Context, filter *course.QueryFilter, orderings []core.DBOrdering) ([]course.Course, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		if filter != nil {
			if filter.Search != "" {
				s := strings.ToLower(filter.Search)
				if !strings.Contains(strings.ToLower(crs.Title), s) &&
					!strings.Contains(strings.ToLower(crs.Description), s) {
					continue
				}
			}
			if filter.Level != "" && crs.Level != filter.Level {
				continue
			}
		}
		courses = append(courses, *crs)
	}

	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	return courses, nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	orig, ok := repo.db.courses[crs.ID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
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

	repo.db.courses[crs.ID] = orig
	return *orig, nil
}

func (repo *courseRepository) DeleteCoursesByID(ctx context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.courses, id)

		// cascade to videos, completions and quizzes
		for vidID, vid := range repo.db.videos {
			if vid.CourseID == id {
				delete(repo.db.videos, vidID)
				for _, done := range repo.db.completions {
					delete(done, vidID)
				}
			}
		}
		for qzID, qz := range repo.db.quizzes {
			if qz.CourseID == id {
				delete(repo.db.quizzes, qzID)
			}
		}
	}
	return nil
}

func (repo *courseRepository) CreateVideo(ctx context.Context, vid course.Video) (course.Video, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	vid.ID = uuid.New().String()
	repo.db.videos[vid.ID] = &vid
	return vid, nil
}

func (repo *courseRepository) GetVideoByID(ctx context.Context, id string) (course.Video, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if vid, ok := repo.db.videos[id]; ok {
		return *vid, nil
	}
	return course.Video{}, course.ErrVideoNotFound
}

func (repo *courseRepository) QueryVideosByCourseID(ctx context.Context, courseID string) ([]course.Video, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	videos := make([]course.Video, 0)
	for _, vid := range repo.db.videos {
		if vid.CourseID == courseID {
			videos = append(videos, *vid)
		}
	}
	sort.Slice(videos, func(i, j int) bool {
		if videos[i].Position != videos[j].Position {
			return videos[i].Position < videos[j].Position
		}
		return videos[i].CreatedAt.Before(videos[j].CreatedAt)
	})
	return videos, nil
}

func (repo *courseRepository) UpdateVideo(ctx context.Context, vid course.Video) (course.Video, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	// only save set fields
	orig, ok := repo.db.videos[vid.ID]
	if !ok {
		return course.Video{}, course.ErrVideoNotFound
	}
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

	repo.db.videos[vid.ID] = orig
	return *orig, nil
}

func (repo *courseRepository) DeleteVideosByID(ctx context.Context, ids ...string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, id := range ids {
		delete(repo.db.videos, id)
		for _, done := range repo.db.completions {
			delete(done, id)
		}
	}
	return nil
}

func (repo *courseRepository) MarkVideoComplete(ctx context.Context, userID, videoID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	done, ok := repo.db.completions[userID]
	if !ok {
		done = make(map[string]bool)
		repo.db.completions[userID] = done
	}
	done[videoID] = true
	return nil
}

func (repo *courseRepository) UnmarkVideoComplete(ctx context.Context, userID, videoID string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	delete(repo.db.completions[userID], videoID)
	return nil
}

func (repo *courseRepository) CompletedVideoIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	ids := make([]string, 0)
	for vidID := range repo.db.completions[userID] {
		if vid, ok := repo.db.videos[vidID]; ok && vid.CourseID == courseID {
			ids = append(ids, vidID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}
