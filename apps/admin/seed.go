package main

import (
	"context"
	"fmt"
	"time"

	"github.com/zuritech/elimu/core/course"
	"github.com/zuritech/elimu/core/user"
)

// seed loads a minimal demo data set: one of each user role and a couple
// of courses with videos. Safe to run repeatedly.
func (cli *commandLine) seed() error {
	ctx := context.Background()
	now := time.Now().UTC()

	demoUsers := []struct {
		name, uname, email string
		roles              []string
	}{
		{"Demo Admin", "demoadmin", "admin@demo.local", user.AdminRoles},
		{"Demo Teacher", "demoteacher", "teacher@demo.local", user.TeacherRoles},
		{"Demo Student", "demostudent", "student@demo.local", user.StudentRoles},
	}
	for _, du := range demoUsers {
		usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, du.uname)
		if err != nil {
			if err != user.ErrNotFound {
				return err
			}
			usr = user.User{
				Name:      du.name,
				Username:  du.uname,
				Email:     du.email,
				CreatedAt: now,
			}
		}
		usr.Roles = du.roles
		usr.SetActive(true)
		usr.UpdatedAt = now
		if err = usr.SetPassword("ChangeMe!123"); err != nil {
			return err
		}
		if _, err = cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
			return err
		}
	}

	demoCourses := []struct {
		title, description, level string
		videos                    []string
	}{
		{
			"Algebra Basics", "Variables, expressions and linear equations.", course.LevelBeginner,
			[]string{"What is a variable?", "Solving linear equations"},
		},
		{
			"Intro to Chemistry", "Atoms, molecules and chemical reactions.", course.LevelIntermediate,
			[]string{"Atomic structure", "Balancing equations"},
		},
	}
	for _, dc := range demoCourses {
		existing, err := cli.courseRepo.FilterCourses(ctx, &course.QueryFilter{Search: dc.title}, nil)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			continue
		}
		crs, err := cli.courseRepo.CreateCourse(ctx, course.Course{
			Title:       dc.title,
			Description: dc.description,
			Level:       dc.level,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			return err
		}
		for i, title := range dc.videos {
			if _, err = cli.courseRepo.CreateVideo(ctx, course.Video{
				CourseID:  crs.ID,
				Title:     title,
				VideoURL:  fmt.Sprintf("https://videos.demo.local/%s/%d.mp4", crs.ID, i+1),
				Position:  i,
				CreatedAt: now,
				UpdatedAt: now,
			}); err != nil {
				return err
			}
		}
	}

	logger.Println("demo data loaded")
	return nil
}
