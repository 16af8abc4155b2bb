// Command seed loads demo data into the configured document store so a
// fresh environment has something to show.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/campusweb/portal-backend/internal/courses"
	"github.com/campusweb/portal-backend/internal/events"
	"github.com/campusweb/portal-backend/internal/facilities"
	"github.com/campusweb/portal-backend/internal/forum"
	"github.com/campusweb/portal-backend/internal/students"
	"github.com/campusweb/portal-backend/internal/tasks"
	"github.com/campusweb/portal-backend/pkg/config"
	"github.com/campusweb/portal-backend/pkg/db"
	"github.com/campusweb/portal-backend/pkg/docstore"
	"github.com/campusweb/portal-backend/pkg/docstore/gormstore"
	"github.com/campusweb/portal-backend/pkg/docstore/redisstore"
	"github.com/campusweb/portal-backend/pkg/enums"
	pkgerrors "github.com/campusweb/portal-backend/pkg/errors"
	"github.com/campusweb/portal-backend/pkg/logger"
	"github.com/campusweb/portal-backend/pkg/migrate"
	"github.com/campusweb/portal-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}
	if err := cfg.Docstore.Validate(); err != nil {
		logg.Error(ctx, "invalid docstore config", err)
		os.Exit(1)
	}
	if cfg.Docstore.Driver == config.DocstoreDriverMemory {
		logg.Error(ctx, "refusing to seed", fmt.Errorf("memory driver loses data on exit; pick redis, postgres or sqlite"))
		os.Exit(1)
	}

	store, cleanup, err := buildStore(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap document store", err)
		os.Exit(1)
	}
	defer cleanup()

	if err := seed(ctx, store); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}
	logg.Info(ctx, "demo data loaded")
}

func buildStore(ctx context.Context, cfg *config.Config, logg *logger.Logger) (docstore.Store, func(), error) {
	switch cfg.Docstore.Driver {
	case config.DocstoreDriverRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, err
		}
		store, err := redisstore.New(client)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return store, func() { client.Close() }, nil

	default:
		dialect := db.DialectPostgres
		if cfg.Docstore.Driver == config.DocstoreDriverSQLite {
			dialect = db.DialectSQLite
		}
		client, err := db.New(ctx, cfg.DB, dialect, logg)
		if err != nil {
			return nil, nil, err
		}
		if err := migrate.MaybeRunDev(ctx, cfg, logg, client); err != nil {
			client.Close()
			return nil, nil, err
		}
		store, err := gormstore.New(client, cfg.Docstore.WatchPollInterval)
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		return store, func() { client.Close() }, nil
	}
}

func seed(ctx context.Context, store docstore.Store) error {
	if err := seedAll(ctx, store, students.Collection, demoStudents); err != nil {
		return err
	}
	if err := seedAll(ctx, store, courses.Collection, demoCourses); err != nil {
		return err
	}
	if err := seedAll(ctx, store, events.Collection, demoEvents); err != nil {
		return err
	}
	if err := seedAll(ctx, store, facilities.Collection, demoFacilities); err != nil {
		return err
	}
	if err := seedAll(ctx, store, tasks.Collection, demoTasks); err != nil {
		return err
	}
	return seedAll(ctx, store, forum.Collection, demoMessages)
}

// seedAll inserts records, skipping ones that already exist so the
// command stays safe to re-run.
func seedAll[T docstore.Record[T]](ctx context.Context, store docstore.Store, collection string, records []T) error {
	col, err := docstore.NewCollection[T](collection, store)
	if err != nil {
		return err
	}
	for _, record := range records {
		if err := col.Insert(ctx, record); err != nil {
			if pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
				continue
			}
			return fmt.Errorf("seeding %s: %w", collection, err)
		}
	}
	return nil
}

var demoStudents = []students.Student{
	{
		ID: "1", StudentNumber: "2024001",
		FirstName: "Daniel", LastName: "Katz", FullName: "Daniel Katz",
		Email: "daniel.katz@campus.edu", Phone: "050-1234567",
		Department: "Computer Science", Year: 2, Semester: enums.SemesterAleph,
		CreditsCompleted: 45, GPA: 3.2, Gender: enums.GenderMale,
		City: "Tel Aviv", Status: enums.StudentStatusActive,
		EnrollmentDate: "2023-09-01",
	},
	{
		ID: "2", StudentNumber: "2024002",
		FirstName: "Shira", LastName: "Goldberg", FullName: "Shira Goldberg",
		Email: "shira.goldberg@campus.edu", Phone: "053-4567890",
		Department: "Software Engineering", Year: 3, Semester: enums.SemesterBet,
		CreditsCompleted: 78, GPA: 3.8, Gender: enums.GenderFemale,
		City: "Beer Sheva", Status: enums.StudentStatusActive,
		EnrollmentDate: "2022-09-01",
	},
	{
		ID: "3", StudentNumber: "2024003",
		FirstName: "Avi", LastName: "Cohen", FullName: "Avi Cohen",
		Email: "avi.cohen@campus.edu", Phone: "054-3210987",
		Department: "Mathematics", Year: 1, Semester: enums.SemesterAleph,
		CreditsCompleted: 15, GPA: 3.5, Gender: enums.GenderMale,
		City: "Jerusalem", Status: enums.StudentStatusActive,
		EnrollmentDate: "2024-09-01",
	},
}

var demoCourses = []courses.Course{
	{ID: "1", Name: "Calculus 1", Code: "MATH101", Instructor: "Dr. Cohen", Credits: 4, Status: enums.CourseStatusActive, Progress: 75, SelectedStudents: []string{"1", "3"}},
	{ID: "2", Name: "Physics 1", Code: "PHYS101", Instructor: "Prof. Levi", Credits: 4, Status: enums.CourseStatusActive, Progress: 60, SelectedStudents: []string{"1", "2"}},
	{ID: "3", Name: "Advanced Programming", Code: "CS201", Instructor: "Dr. Mizrahi", Credits: 3, Status: enums.CourseStatusActive, Progress: 40, SelectedStudents: []string{"2"}},
	{ID: "4", Name: "Data Structures", Code: "CS202", Instructor: "Dr. Cohen", Credits: 3, Status: enums.CourseStatusUpcoming, SelectedStudents: []string{}},
}

var demoEvents = []events.Event{
	{ID: "1", Title: "Semester Opening", Description: "Welcome gathering on the main lawn", Date: "2026-09-01", Time: "10:00", RoomID: "Main Lawn"},
	{ID: "2", Title: "Math Midterm", Description: "Covers weeks 1-6", Date: "2026-10-18", Time: "09:00", RoomID: "B104", Urgent: true},
	{ID: "3", Title: "Career Fair", Description: "Industry booths and CV reviews", Date: "2026-11-05", Time: "12:00", RoomID: "Hall A"},
}

var demoFacilities = []facilities.Facility{
	{ID: "1", Name: "Cafeteria", Status: enums.FacilityStatusOpen, Hours: "07:30-19:00", TotalRatings: 12, AverageRating: 4.1},
	{ID: "2", Name: "Library", Status: enums.FacilityStatusOpen, Hours: "08:00-22:00", TotalRatings: 31, AverageRating: 4.6},
	{ID: "3", Name: "Gym", Status: enums.FacilityStatusClosed, Hours: "06:00-23:00", TotalRatings: 8, AverageRating: 3.9},
}

var demoTasks = []tasks.Task{
	{ID: "1", Title: "Problem set 3", Type: enums.TaskTypeHomework, Course: "1", DueDate: "2026-09-20", Priority: enums.TaskPriorityUrgent, Status: enums.TaskStatusPending},
	{ID: "2", Title: "Lab report", Type: enums.TaskTypeHomework, Course: "2", DueDate: "2026-09-25", Priority: enums.TaskPriorityMedium, Status: enums.TaskStatusPending},
	{ID: "3", Title: "Midterm", Type: enums.TaskTypeExam, Course: "1", DueDate: "2026-10-18", Priority: enums.TaskPriorityUrgent, Status: enums.TaskStatusPending},
}

var demoMessages = []forum.Message{
	{ID: "1", Sender: "Dr. Cohen", Content: "The math exam takes place Sunday at 10:00", Timestamp: "2026-09-10T09:00:00Z", CourseID: "1"},
	{ID: "2", Sender: "Prof. Levi", Content: "Reminder: the physics assignment is due Thursday", Timestamp: "2026-09-10T14:30:00Z", CourseID: "2"},
	{ID: "3", Sender: "Dr. Mizrahi", Content: "Next class meets in lab C205", Timestamp: "2026-09-11T08:00:00Z", CourseID: "3"},
}
