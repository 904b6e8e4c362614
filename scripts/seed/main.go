package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/adapters/persistence"
	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/auth"
	"github.com/khoahotran/devconnector/pkg/logger"
)

var statuses = []string{"Developer", "Junior Developer", "Senior Developer", "Manager", "Student or Learning", "Instructor", "Intern"}

func main() {
	count := flag.Int("n", 10, "number of demo developers")
	password := flag.String("password", "secret123", "password for every demo account")
	seed := flag.Int64("seed", 0, "gofakeit seed, 0 picks a random one")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()

	gofakeit.Seed(*seed)

	ctx := context.Background()
	store, err := persistence.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Cannot open store", err)
	}
	defer store.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		appLogger.Fatal("Cannot hash password", err)
	}

	for i := 0; i < *count; i++ {
		u, err := seedDeveloper(ctx, store, hash)
		if err != nil {
			appLogger.Fatal("Cannot seed developer", err)
		}
		appLogger.Info("Seeded developer", zap.String("email", u.Email), zap.String("user_id", u.ID.String()))
	}

	fmt.Printf("seeded %d developers, password %q\n", *count, *password)
}

func seedDeveloper(ctx context.Context, store *persistence.Store, passwordHash string) (*user.User, error) {
	person := gofakeit.Person()
	email := strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", person.FirstName, person.LastName, gofakeit.Number(1, 9999)))
	now := time.Now().UTC()

	u := &user.User{
		ID:           uuid.New(),
		Name:         person.FirstName + " " + person.LastName,
		Email:        email,
		Avatar:       auth.GravatarURL(email),
		PasswordHash: passwordHash,
		Date:         now,
	}

	p := profile.New(u.ID, now)
	p.Status = gofakeit.RandomString(statuses)
	p.Company = gofakeit.Company()
	p.Website = gofakeit.URL()
	p.Location = gofakeit.City() + ", " + gofakeit.StateAbr()
	p.Bio = gofakeit.Sentence(12)
	p.GitHubUsername = gofakeit.Username()
	p.Skills = []string{gofakeit.ProgrammingLanguage(), gofakeit.ProgrammingLanguage(), "Go"}
	p.Social.LinkedIn = "https://linkedin.com/in/" + strings.ToLower(person.FirstName+person.LastName)

	from := gofakeit.DateRange(now.AddDate(-10, 0, 0), now.AddDate(-3, 0, 0))
	to := from.AddDate(2, 0, 0)
	p.AddExperience(profile.Experience{
		Title: gofakeit.JobTitle(), Company: gofakeit.Company(), Location: gofakeit.City(),
		From: from, To: &to, Description: gofakeit.Sentence(8),
	})
	p.AddExperience(profile.Experience{
		Title: gofakeit.JobTitle(), Company: p.Company, From: to, Current: true,
	})
	p.AddEducation(profile.Education{
		School: gofakeit.Company() + " University", Degree: "BSc", FieldOfStudy: "Computer Science",
		From: from.AddDate(-4, 0, 0), To: &from,
	})

	err := store.Tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := store.Users.Save(ctx, u); err != nil {
			return err
		}
		if err := store.Profiles.Save(ctx, p); err != nil {
			return err
		}
		return store.Posts.Save(ctx, &post.Post{
			ID: uuid.New(), UserID: u.ID, Text: gofakeit.Sentence(20),
			Name: u.Name, Avatar: u.Avatar, Date: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}
