package ops

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/staticpress/lektorexport/internal/content"
	"github.com/staticpress/lektorexport/internal/errors"
)

// SiteConfigFilename is the site configuration file written at the root of
// every export.
const SiteConfigFilename = "_config.yml"

// siteConfig is the YAML shape of the exported site options. The source's
// option keys are already stripped of their site/blog prefixes by the
// content source (siteurl -> url, blogname -> name).
type siteConfig struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	URL         string `yaml:"url,omitempty"`
}

// SiteConfigYAML renders site options as YAML.
func SiteConfigYAML(opts content.SiteOptions) ([]byte, error) {
	return yaml.Marshal(siteConfig{
		Name:        opts.Name,
		Description: opts.Description,
		URL:         opts.URL,
	})
}

// WriteSiteConfig writes the site configuration file into dir.
func WriteSiteConfig(dir string, opts content.SiteOptions) error {
	data, err := SiteConfigYAML(opts)
	if err != nil {
		return errors.NewInternal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, SiteConfigFilename), data, 0644); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}
