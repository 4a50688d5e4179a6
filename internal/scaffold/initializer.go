package scaffold

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tjmonk/varcreate/internal/config"
)

//go:embed templates/*
var templatesFS embed.FS

// ConfigFileName is the tool configuration written by Initialize.
const ConfigFileName = config.DefaultFileName

// VarsFileName is the example variable definition file written by Initialize.
const VarsFileName = "vars.json"

// FileInfo represents a file to be created during initialization
type FileInfo struct {
	Path        string
	Content     []byte
	Permissions os.FileMode
}

// Initialize creates the starter varcreate project files in the working
// directory. If force is true, existing files are removed first.
func Initialize(force bool) error {
	// Handle --force flag
	if force {
		if err := handleForce(); err != nil {
			return err
		}
	}

	// Get template files
	files, err := getTemplateFiles()
	if err != nil {
		return err
	}

	// Write files
	if err := writeFiles(files); err != nil {
		return err
	}

	// Validate created files
	return validateCreatedFiles()
}

// handleForce removes existing files if --force was specified
func handleForce() error {
	for _, path := range []string{ConfigFileName, VarsFileName} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		fmt.Printf("⚠️  Removing existing %s...\n", path)
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

// getTemplateFiles reads and processes all template files
func getTemplateFiles() ([]FileInfo, error) {
	files := []FileInfo{}

	configYml, err := templatesFS.ReadFile("templates/varcreate.yml.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read varcreate.yml template: %w", err)
	}
	files = append(files, FileInfo{
		Path:        ConfigFileName,
		Content:     configYml,
		Permissions: 0644,
	})

	varsJSON, err := templatesFS.ReadFile("templates/vars.json.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to read vars.json template: %w", err)
	}
	files = append(files, FileInfo{
		Path:        VarsFileName,
		Content:     varsJSON,
		Permissions: 0644,
	})

	return files, nil
}

// writeFiles writes all template files to disk
func writeFiles(files []FileInfo) error {
	for _, file := range files {
		if err := os.WriteFile(file.Path, file.Content, file.Permissions); err != nil {
			return fmt.Errorf("failed to write %s: %w", file.Path, err)
		}
	}

	return nil
}

// validateCreatedFiles validates that created files are correct
func validateCreatedFiles() error {
	// The configuration must survive a full load, not just a YAML parse.
	if _, err := config.Load(ConfigFileName); err != nil {
		return fmt.Errorf("created %s is not valid: %w", ConfigFileName, err)
	}

	data, err := os.ReadFile(VarsFileName)
	if err != nil {
		return fmt.Errorf("failed to read created %s: %w", VarsFileName, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("created %s is not valid JSON", VarsFileName)
	}

	return nil
}

// PrintSuccess prints the success message with created files
func PrintSuccess() {
	fmt.Println("\n✅ Initialized varcreate project!")
	fmt.Println("\nCreated:")
	fmt.Println("  ✓ " + ConfigFileName)
	fmt.Println("  ✓ " + VarsFileName)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit " + VarsFileName + " to declare your variables")
	fmt.Println("  2. Adjust defaults in " + ConfigFileName)
	fmt.Println("  3. Run 'varcreate " + VarsFileName + "' to register them")
}
