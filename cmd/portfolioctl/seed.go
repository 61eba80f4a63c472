package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/abhishek622/portfolio/internal/service"
	"github.com/abhishek622/portfolio/pkg/model"
)

type seedFile struct {
	Interviews []model.CreateInterviewReq `yaml:"interviews"`
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert interview experiences from a YAML file",
	Long:  "Validates every interview in the file and inserts them into the configured store. Nothing is written when any entry is invalid.",
	RunE:  runSeed,
}

var (
	seedInputFile string
	seedDryRun    bool
)

func init() {
	seedCmd.Flags().StringVarP(&seedInputFile, "file", "f", "", "Path to the YAML seed file (required)")
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false, "Validate the file without writing")

	if err := seedCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(seedCmd)
}

func loadSeedFile(path string) ([]model.CreateInterviewReq, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()
	return parseSeed(f)
}

func parseSeed(r io.Reader) ([]model.CreateInterviewReq, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var sf seedFile
	if err := dec.Decode(&sf); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("seed file is empty")
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if len(sf.Interviews) == 0 {
		return nil, errors.New("seed file has no interviews")
	}
	return sf.Interviews, nil
}

// validateSeed checks every entry and reports all failures at once.
func validateSeed(reqs []model.CreateInterviewReq) error {
	var errs []error
	for i, req := range reqs {
		if _, err := model.NewInterviewExperience(req); err != nil {
			errs = append(errs, fmt.Errorf("interview %d (%s): %w", i+1, req.Company, err))
		}
	}
	return errors.Join(errs...)
}

func seedInterviews(ctx context.Context, svc *service.InterviewService, reqs []model.CreateInterviewReq, out io.Writer) (int, error) {
	for i, req := range reqs {
		e, err := svc.Create(ctx, req)
		if err != nil {
			return i, fmt.Errorf("failed to insert interview %d (%s): %w", i+1, req.Company, err)
		}
		_, _ = fmt.Fprintf(out, "inserted %s: %s, %s\n", e.ID, e.Company, e.Role)
	}
	return len(reqs), nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	reqs, err := loadSeedFile(seedInputFile)
	if err != nil {
		return err
	}
	if err := validateSeed(reqs); err != nil {
		return fmt.Errorf("seed file is invalid:\n%w", err)
	}
	out := cmd.OutOrStdout()
	if seedDryRun {
		_, _ = fmt.Fprintf(out, "%d interviews are valid\n", len(reqs))
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	repo, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer repo.Close(context.Background())

	n, err := seedInterviews(ctx, service.NewInterviewService(repo.Interview), reqs, out)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "Seeded %d interviews into %s\n", n, repo.Name())
	return nil
}
