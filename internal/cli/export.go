package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kreger51/mcgill-schedule/internal/course"
	"github.com/Kreger51/mcgill-schedule/internal/export"
	"github.com/Kreger51/mcgill-schedule/internal/serial"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Turn saved courses into an .ics file or calendar-API events",
	Long: `Read a courses JSON file produced by fetch, project each course into a
calendar event and write the result either as an iCalendar document or as
calendar-API event resources in JSON.`,
	RunE: runExport,
}

var (
	flagIn          string
	flagFormat      string
	flagExportOut   string
	flagSummary     string
	flagDescription string
)

func init() {
	exportCmd.Flags().StringVar(&flagIn, "input", "courses.json", "Courses JSON file")
	exportCmd.Flags().StringVar(&flagFormat, "format", "ics", "Output format: ics or gcal")
	exportCmd.Flags().StringVar(&flagExportOut, "output", "", "Output file (default schedule.ics or events.json)")
	exportCmd.Flags().StringVar(&flagSummary, "summary", "", "Summary template override")
	exportCmd.Flags().StringVar(&flagDescription, "description", "", "Description template override")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(flagIn)
	if err != nil {
		return fmt.Errorf("reading %s: %w", flagIn, err)
	}
	courses, err := serial.LoadCourses(data)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		return fmt.Errorf("no courses in %s", flagIn)
	}

	formatter := cfg.CourseFormatter()
	if flagSummary != "" {
		formatter.Summary = flagSummary
	}
	if flagDescription != "" {
		formatter.Description = flagDescription
	}

	events, err := course.ProjectAll(courses, formatter)
	if err != nil {
		return err
	}

	var payload []byte
	output := flagExportOut
	switch flagFormat {
	case "ics":
		payload, err = export.ToICS(events)
		if err != nil {
			return err
		}
		if output == "" {
			output = "schedule.ics"
		}
	case "gcal":
		resources, err := export.ToAPIEvents(events)
		if err != nil {
			return err
		}
		out, err := serial.PrettyDump(resources)
		if err != nil {
			return err
		}
		payload = []byte(out)
		if output == "" {
			output = "events.json"
		}
	default:
		return fmt.Errorf("unknown format %q (valid formats: ics, gcal)", flagFormat)
	}

	if err := os.WriteFile(output, payload, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}

	fmt.Printf("Exported %d events to %s\n", len(events), output)
	return nil
}
