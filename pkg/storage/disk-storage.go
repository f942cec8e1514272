package storage

import (
	"fmt"
	"log"
	"os"
	"path"

	"github.com/matst80/slask-filters/pkg/common/jsoncompat"
	"github.com/matst80/slask-filters/pkg/filter"
	"github.com/matst80/slask-filters/pkg/types"
)

const manifestFile = "filters.json"
const candidatesFile = "candidates.json"

func (d *DiskStorage) LoadManifest(output *filter.Manifest) error {
	if err := d.LoadJson(output, manifestFile); err != nil {
		return fmt.Errorf("load manifest %s: %w", d.Dashboard, err)
	}
	if output.Name == "" {
		output.Name = d.Dashboard
	}
	return nil
}

func (d *DiskStorage) SaveManifest(manifest *filter.Manifest) error {
	return d.SaveJson(manifest, manifestFile)
}

// LoadCandidates reads the suggestion lists keyed by filter key. A missing
// file is not an error, the dashboard simply has no static suggestions.
func (d *DiskStorage) LoadCandidates(output *map[string][]types.Candidate) error {
	err := d.LoadJson(output, candidatesFile)
	if os.IsNotExist(err) {
		log.Printf("No candidates file for dashboard %s", d.Dashboard)
		return nil
	}
	return err
}

func (d *DiskStorage) SaveCandidates(candidates map[string][]types.Candidate) error {
	return d.SaveJson(candidates, candidatesFile)
}

func (p *DiskStorage) SaveJson(data any, name string) error {
	fileName, tmpFileName := p.GetFileName(name)
	if err := os.MkdirAll(path.Dir(fileName), 0o755); err != nil {
		return err
	}
	b, err := jsoncompat.Marshal(data)
	if err != nil {
		return err
	}
	if err = os.WriteFile(tmpFileName, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpFileName, fileName)
}

func (p *DiskStorage) LoadJson(data any, filename string) error {
	name, _ := p.GetFileName(filename)
	b, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	return jsoncompat.Unmarshal(b, data)
}
