package formats

import (
	"encoding/xml"
	"fmt"
	"io"
)

// ManifestFileName is the file Gazebo looks for next to the model document.
const ManifestFileName = "model.config"

// Manifest is the model.config document that points a simulator at the model.
type Manifest struct {
	XMLName     xml.Name    `xml:"model"`
	Name        string      `xml:"name"`
	Version     string      `xml:"version"`
	SDF         ManifestSDF `xml:"sdf"`
	Description string      `xml:"description,omitempty"`
}

// ManifestSDF names the model document and its format version.
type ManifestSDF struct {
	Version string `xml:"version,attr"`
	File    string `xml:",chardata"`
}

// NewManifest returns the manifest for a model written in dialect d.
func NewManifest(modelName string, d Dialect, sdfVersion string) Manifest {
	if sdfVersion == "" {
		sdfVersion = DefaultSDFVersion
	}
	return Manifest{
		Name:    modelName,
		Version: "1.0",
		SDF:     ManifestSDF{Version: sdfVersion, File: d.FileName()},
	}
}

// WriteManifest writes m with an XML declaration.
func WriteManifest(w io.Writer, m Manifest) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest parses a model.config document.
func ReadManifest(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := xml.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return m, nil
}
