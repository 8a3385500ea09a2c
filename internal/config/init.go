package config

import (
	"os"

	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
)

const exampleConfig = `version: "1"

site:
  title: My API Documentation
  source_dir: docs
  output_dir: _build/html
  root_doc: index
  # flat writes page.html, directory writes page/index.html
  layout: flat
  html_static_path:
    - static

swagger:
  # Download the viewer assets into the static directory instead of using the CDN.
  vendor_assets: false
  validate_specs: true
  strict_validation: false
  pages:
    - name: Petstore
      page: api/petstore
      id: petstore
      options:
        url: https://petstore.swagger.io/v2/swagger.json
        docExpansion: none

logging:
  level: ${SWAGGERDOC_LOG_LEVEL}
  format: text

monitoring:
  metrics_file: ""
`

// Init writes an example configuration to configPath.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return derrors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("file", configPath).Build()
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "failed to write config file").
			Fatal().WithContext("file", configPath).Build()
	}
	return nil
}
