// Package audit implements the image record audit command.
package audit

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/conf"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/datastore"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/imageresolver"
	"github.com/bhqrkxc888-spec/Limitless-web-sub004/internal/storage"
)

// Command creates the audit command for validating stored image records.
func Command(settings *conf.Settings) *cobra.Command {
	var verifyObjects bool

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Audit stored image records",
		Long:  "Walk every image record, validate its URL and naming conventions and report SEO issues.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.Context(), settings, verifyObjects)
		},
	}

	cmd.Flags().BoolVar(&verifyObjects, "verify-objects", viper.GetBool("storage.preflight.enabled"), "Probe object storage for each record")

	return cmd
}

// recordIssues collects what is wrong with one record.
type recordIssues struct {
	record *datastore.ImageRecord
	issues []string
}

func runAudit(ctx context.Context, settings *conf.Settings, verifyObjects bool) error {
	store := datastore.New(settings)
	if err := store.Open(); err != nil {
		return fmt.Errorf("failed to open datastore: %w", err)
	}
	defer func() { _ = store.Close() }()

	records, err := store.GetAllImages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list image records: %w", err)
	}

	var client *storage.Client
	if verifyObjects {
		client = storage.NewClient(settings, nil)
	}

	conventions := imageresolver.NewConventions(settings)

	var flagged []recordIssues
	overrides := 0
	for i := range records {
		record := &records[i]
		issues := auditRecord(ctx, record, conventions, client)

		bucket, path, ok := conventions.ObjectLocation(record.EntityType, record.EntityID, record.ImageType)
		if !ok || bucket != record.Bucket || path != record.Path {
			overrides++
		}

		if len(issues) > 0 {
			flagged = append(flagged, recordIssues{record: record, issues: issues})
		}
	}

	fmt.Printf("Audited %d image records (%d off-convention overrides)\n", len(records), overrides)
	for _, f := range flagged {
		fmt.Printf("  [%d] %s:%s:%s\n", f.record.ID, f.record.EntityType, f.record.EntityID, f.record.ImageType)
		for _, issue := range f.issues {
			fmt.Printf("      - %s\n", issue)
		}
	}
	if len(flagged) == 0 {
		fmt.Println("No issues found")
		return nil
	}

	return fmt.Errorf("%d of %d records have issues", len(flagged), len(records))
}

// auditRecord validates one record and returns its issues.
func auditRecord(ctx context.Context, record *datastore.ImageRecord, conventions imageresolver.Conventions, client *storage.Client) []string {
	var issues []string

	if !record.HasObject() {
		issues = append(issues, "missing bucket or path")
		return issues
	}

	if _, known := conventions.Bucket(record.EntityType); !known {
		issues = append(issues, fmt.Sprintf("unknown entity type %q", record.EntityType))
	}

	url := conventions.PublicURL(record.Bucket, record.Path)
	if _, status := imageresolver.ClassifySource(url, ""); status != imageresolver.StatusResolvedAbsolute {
		issues = append(issues, fmt.Sprintf("public URL does not validate: %s", url))
	}

	if record.AltText == "" {
		issues = append(issues, "missing alt text")
	}
	if !record.SEOCompliant {
		issues = append(issues, "not SEO compliant")
	}
	for _, warning := range record.Warnings() {
		issues = append(issues, "warning: "+warning)
	}

	if client != nil {
		exists, err := client.ObjectExists(ctx, record.Bucket, record.Path)
		if err != nil {
			issues = append(issues, fmt.Sprintf("storage probe failed: %v", err))
		} else if !exists {
			issues = append(issues, "object missing in storage")
		}
	}

	return issues
}
