package skyview

import "fmt"

// initializerTemplate mirrors the swagger-initializer.js shipped with the
// distribution, with the hardcoded petstore URL replaced by a configUrl
// that points back at this mount's configuration endpoint.
const initializerTemplate = `window.onload = function() {
  //<editor-fold desc="Changeable Configuration Block">

  window.ui = SwaggerUIBundle({
    configUrl: %q,
    dom_id: '#swagger-ui',
    deepLinking: true,
    presets: [
      SwaggerUIBundle.presets.apis,
      SwaggerUIStandalonePreset
    ],
    plugins: [
      SwaggerUIBundle.plugins.DownloadUrl
    ],
    layout: "StandaloneLayout"
  });

  //</editor-fold>
};
`

// renderInitializer builds the swagger-initializer.js body for a mount.
func renderInitializer(basePath string) []byte {
	return fmt.Appendf(nil, initializerTemplate, joinBase(basePath, ConfigFileName))
}
