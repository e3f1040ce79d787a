// Package render authors render settings on a stage and drives the external
// renderer over the exported document.
package render

import (
	"github.com/ivlev/stagecraft/internal/stage"
)

const scopePath = "/Render"

// AOV names matching the passes the compositing setup expects.
var StandardAOVs = []string{"combined", "depth", "normal", "diffuse_direct", "cryptomatte"}

var aovSources = map[string]struct {
	source   string
	dataType string
}{
	"combined":       {"Ci", "color3f"},
	"depth":          {"z", "float"},
	"normal":         {"N", "normal3f"},
	"diffuse_direct": {"directDiffuse", "color3f"},
	"cryptomatte":    {"id", "float"},
}

// SettingsManager authors RenderSettings, RenderProducts and RenderVars
// under the /Render scope.
type SettingsManager struct {
	st *stage.Stage
}

// NewSettingsManager creates the render scope on the stage.
func NewSettingsManager(st *stage.Stage) (*SettingsManager, error) {
	if _, err := st.DefinePrim(scopePath, "Scope"); err != nil {
		return nil, err
	}
	return &SettingsManager{st: st}, nil
}

// CreateSettings authors a RenderSettings prim bound to a camera and an
// optional product list, records it as the stage's render settings prim, and
// returns its path.
func (m *SettingsManager) CreateSettings(name, cameraPath string, width, height int, products []string) (string, error) {
	path := scopePath + "/" + name
	p, err := m.st.DefinePrim(path, "RenderSettings")
	if err != nil {
		return "", err
	}
	m.st.SetMetadata("renderSettingsPrimPath", path)
	p.SetAttr("resolution", stage.TypeInt2, [2]int{width, height})
	p.SetRel("camera", cameraPath)
	if len(products) > 0 {
		p.SetRel("products", products...)
	}
	return path, nil
}

// CreateProduct authors a RenderProduct naming an output artifact for one
// camera, with an optional ordered AOV list.
func (m *SettingsManager) CreateProduct(name, cameraPath, outputPath string, orderedVars []string) (string, error) {
	path := scopePath + "/" + name
	p, err := m.st.DefinePrim(path, "RenderProduct")
	if err != nil {
		return "", err
	}
	p.SetAttr("productName", stage.TypeToken, outputPath)
	p.SetRel("camera", cameraPath)
	if len(orderedVars) > 0 {
		p.SetRel("orderedVars", orderedVars...)
	}
	return path, nil
}

// CreateVar authors a RenderVar under /Render/Vars. sourceType may be empty.
func (m *SettingsManager) CreateVar(name, sourceName, dataType, sourceType string) (string, error) {
	path := scopePath + "/Vars/" + name
	p, err := m.st.DefinePrim(path, "RenderVar")
	if err != nil {
		return "", err
	}
	p.SetAttr("sourceName", stage.TypeToken, sourceName)
	p.SetAttr("dataType", stage.TypeToken, dataType)
	if sourceType != "" {
		p.SetAttr("sourceType", stage.TypeToken, sourceType)
	}
	return path, nil
}

// CreateStandardAOVs authors the standard pass set and returns the var paths
// in a stable order, for use as a product's orderedVars.
func (m *SettingsManager) CreateStandardAOVs() ([]string, error) {
	paths := make([]string, 0, len(StandardAOVs))
	for _, name := range StandardAOVs {
		src := aovSources[name]
		path, err := m.CreateVar(name, src.source, src.dataType, "raw")
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
