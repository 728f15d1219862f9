package breather

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
)

type uiModelPersistenceData struct {
	PreferredPattern string `json:"preferred_pattern"`
}

type uiModelPersistence struct {
	filePath string
	data     uiModelPersistenceData
	logger   *log.Logger
}

// newUIModelPersistence loads remembered UI state from filePath.
// An empty path keeps state in memory only.
func newUIModelPersistence(filePath string, logger *log.Logger) *uiModelPersistence {
	p := &uiModelPersistence{
		filePath: filePath,
		logger:   logger,
	}
	p.load()
	return p
}

func (p *uiModelPersistence) getPreferredPattern() string {
	name := p.data.PreferredPattern
	p.logger.Printf("UIModelPersistence: getPreferredPattern -> %q", name)
	return name
}

func (p *uiModelPersistence) setPreferredPattern(name string) {
	if p.data.PreferredPattern == name {
		return
	}
	p.logger.Printf("UIModelPersistence: setPreferredPattern -> %q", name)
	p.data.PreferredPattern = name
	p.save()
}

func (p *uiModelPersistence) load() {
	p.data = uiModelPersistenceData{}
	if p.filePath == "" {
		return
	}
	raw, err := os.ReadFile(p.filePath)
	if err != nil {
		p.logger.Printf("UIModelPersistence: load %s (no existing file)", p.filePath)
		return
	}
	if err := json.Unmarshal(raw, &p.data); err != nil {
		p.logger.Printf("UIModelPersistence: load %s failed to parse: %v", p.filePath, err)
		p.data = uiModelPersistenceData{}
		return
	}
	p.logger.Printf("UIModelPersistence: load %s -> %+v", p.filePath, p.data)
}

func (p *uiModelPersistence) save() {
	if p.filePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(p.filePath), 0755); err != nil {
		p.logger.Printf("UIModelPersistence: save mkdir failed: %v", err)
		return
	}
	raw, err := json.MarshalIndent(p.data, "", "  ")
	if err != nil {
		p.logger.Printf("UIModelPersistence: save marshal failed: %v", err)
		return
	}
	if err := os.WriteFile(p.filePath, raw, 0644); err != nil {
		p.logger.Printf("UIModelPersistence: save %s failed: %v", p.filePath, err)
		return
	}
	p.logger.Printf("UIModelPersistence: save %s -> %+v", p.filePath, p.data)
}
