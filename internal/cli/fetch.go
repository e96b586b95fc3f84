package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"

	"github.com/Kreger51/mcgill-schedule/internal/course"
	"github.com/Kreger51/mcgill-schedule/internal/scraper"
	"github.com/Kreger51/mcgill-schedule/internal/serial"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Log into Minerva and save the parsed schedule as JSON",
	Long: `Fetch the schedule for a term and write the parsed courses to a JSON
file, ready for the export command. Credentials not given as flags are
prompted for; the secret is always prompted.`,
	RunE: runFetch,
}

var (
	flagUser   string
	flagSeason string
	flagYear   int
	flagOut    string
)

func init() {
	fetchCmd.Flags().StringVar(&flagUser, "user", "", "McGill ID number or username")
	fetchCmd.Flags().StringVar(&flagSeason, "season", "", "Season: fall, winter or summer")
	fetchCmd.Flags().IntVar(&flagYear, "year", time.Now().Year(), "Year of the term")
	fetchCmd.Flags().StringVar(&flagOut, "output", "courses.json", "Output file for the parsed courses")
	rootCmd.AddCommand(fetchCmd)
}

// promptMissing asks for whatever fetch parameters were not passed as flags.
// The secret has no flag on purpose: it should not end up in shell history.
func promptMissing(user, secret, season *string) error {
	var fields []huh.Field
	if *user == "" {
		fields = append(fields, huh.NewInput().
			Title("McGill ID or username").
			Value(user))
	}
	fields = append(fields, huh.NewInput().
		Title("Minerva PIN or password").
		EchoMode(huh.EchoModePassword).
		Value(secret))
	if *season == "" {
		fields = append(fields, huh.NewSelect[string]().
			Title("Season").
			Options(
				huh.NewOption("Fall", "fall"),
				huh.NewOption("Winter", "winter"),
				huh.NewOption("Summer", "summer"),
			).
			Value(season))
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func runFetch(cmd *cobra.Command, args []string) error {
	user, season := flagUser, flagSeason
	var secret string
	if err := promptMissing(&user, &secret, &season); err != nil {
		return err
	}

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	parser := scraper.NewParser(loc)
	client := scraper.NewClient()
	ctx := cmd.Context()

	// Transient transport errors are retried; the three typed Minerva
	// failures are final.
	var courses []course.Course
	fetchOnce := func() error {
		var err error
		courses, err = client.FetchCourses(ctx, parser, user, secret, season, flagYear)
		if err == nil {
			return nil
		}
		var seasonErr *scraper.UnknownSeasonError
		if errors.Is(err, scraper.ErrLoginFailed) ||
			errors.Is(err, scraper.ErrNotRegistered) ||
			errors.As(err, &seasonErr) {
			return backoff.Permanent(err)
		}
		return err
	}

	var fetchErr error
	_ = spinner.New().
		Title(fmt.Sprintf("Fetching %s %d schedule...", season, flagYear)).
		Action(func() {
			fetchErr = backoff.Retry(fetchOnce,
				backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3))
		}).
		Run()

	if fetchErr != nil {
		switch {
		case errors.Is(fetchErr, scraper.ErrLoginFailed):
			return fmt.Errorf("invalid username or password")
		case errors.Is(fetchErr, scraper.ErrNotRegistered):
			return fmt.Errorf("you are not registered for %s %d", season, flagYear)
		default:
			return fetchErr
		}
	}

	out, err := serial.PrettyDump(courses)
	if err != nil {
		return err
	}
	if err := os.WriteFile(flagOut, []byte(out), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", flagOut, err)
	}

	fmt.Printf("Saved %d courses to %s\n", len(courses), flagOut)
	return nil
}
