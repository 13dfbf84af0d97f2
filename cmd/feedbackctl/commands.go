package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/urfave/cli"
	"gorm.io/gorm"

	"github.com/pageza/feedback/backend/config"
	"github.com/pageza/feedback/backend/internal/database"
	"github.com/pageza/feedback/backend/internal/models"
	"github.com/pageza/feedback/backend/internal/repository"
	"github.com/pageza/feedback/backend/internal/service"
)

// withDatabase loads the configuration, opens the database and prints
// which one the command works on.
func withDatabase(c *cli.Context, fn func(*config.Config, *gorm.DB) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	db, err := database.Open(cfg)
	if err != nil {
		return errors.Wrap(err, "connecting to database")
	}
	defer database.Close(db)

	fmt.Fprintf(c.App.Writer, "Database: %s\n", cfg.DatabaseLabel())
	return fn(cfg, db)
}

func initDB() cli.Command {
	return cli.Command{
		Name:  "initdb",
		Usage: "create all database tables",
		Action: func(c *cli.Context) error {
			return withDatabase(c, func(_ *config.Config, db *gorm.DB) error {
				if err := database.CreateAll(db); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, "All tables created")
				return nil
			})
		},
	}
}

func dropDB() cli.Command {
	return cli.Command{
		Name:  "dropdb",
		Usage: "drop all database tables",
		Action: func(c *cli.Context) error {
			return withDatabase(c, func(_ *config.Config, db *gorm.DB) error {
				if err := database.DropAll(db); err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, "All tables dropped")
				return nil
			})
		},
	}
}

var (
	seedTexts = []string{
		"Works great, thanks!",
		"The docs could use more examples",
		"Startup got a lot faster",
		"Crashes when the config file is empty",
		"Love the new export",
		"Hard to find the settings page",
	}
	seedVersions = []string{"0.9", "1.0", "1.1", "dev", ""}
)

func seed() cli.Command {
	const countFlagName = "count"

	return cli.Command{
		Name:  "seed",
		Usage: "insert sample feedback for local development",
		Flags: []cli.Flag{
			cli.IntFlag{
				Name:  countFlagName,
				Usage: "number of messages to insert",
				Value: 20,
			},
		},
		Action: func(c *cli.Context) error {
			count := c.Int(countFlagName)
			if count < 1 {
				return errors.Errorf("count must be positive, got %d", count)
			}

			return withDatabase(c, func(cfg *config.Config, db *gorm.DB) error {
				if cfg.Environment.IsProduction() {
					return errors.New("refusing to seed a production database")
				}

				ctx := context.Background()
				repo := repository.NewFeedbackRepository(db)
				start := time.Now().Add(-time.Duration(count) * time.Minute)
				for i := 0; i < count; i++ {
					kind := models.Happy
					if i%3 == 2 {
						kind = models.Unhappy
					}
					fb, err := models.NewFeedback(kind,
						seedTexts[i%len(seedTexts)],
						seedVersions[i%len(seedVersions)],
						start.Add(time.Duration(i)*time.Minute))
					if err != nil {
						return err
					}
					if err := repo.Insert(ctx, fb); err != nil {
						return errors.Wrapf(err, "inserting message %d", i+1)
					}
				}

				fmt.Fprintf(c.App.Writer, "Inserted %d messages\n", count)
				return nil
			})
		},
	}
}

func archive() cli.Command {
	const (
		versionFlagName = "version"
		formatFlagName  = "format"
		expiresFlagName = "expires"
	)

	return cli.Command{
		Name:  "archive",
		Usage: "upload an export snapshot to S3",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  versionFlagName,
				Usage: "export only this version, or 'all'",
				Value: service.AllVersions,
			},
			cli.StringFlag{
				Name:  formatFlagName,
				Usage: "export format, 'json' or 'txt'",
				Value: service.FormatJSON,
			},
			cli.DurationFlag{
				Name:  expiresFlagName,
				Usage: "lifetime of the printed download link",
				Value: time.Hour,
			},
		},
		Before: func(c *cli.Context) error {
			switch c.String(formatFlagName) {
			case service.FormatJSON, service.FormatText:
				return nil
			}
			return errors.Errorf("unsupported format '%s'", c.String(formatFlagName))
		},
		Action: func(c *cli.Context) error {
			return withDatabase(c, func(cfg *config.Config, db *gorm.DB) error {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
				defer cancel()

				storage, err := config.NewS3Config(ctx, cfg)
				if err != nil {
					return errors.Wrap(err, "configuring S3")
				}

				feedback := service.NewFeedbackService(repository.NewFeedbackRepository(db), cfg.FeedbackPerPage)
				archiver := service.NewExportArchiver(feedback, storage.Client, storage.BucketName, storage.Prefix)

				key, err := archiver.Archive(ctx, c.String(versionFlagName), c.String(formatFlagName))
				if err != nil {
					return err
				}
				fmt.Fprintf(c.App.Writer, "Uploaded s3://%s/%s\n", storage.BucketName, key)

				url, err := storage.GeneratePresignedURL(ctx, key, c.Duration(expiresFlagName))
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, url)
				return nil
			})
		},
	}
}
