// Package swagger embeds an interactive Swagger UI viewer into site builds.
//
// The Locator maps specification references found in documents to copies
// under the static root and computes the relative URL each page uses to
// reach its copy. Extension registers the swagger-plugin and inline-swagger
// directives and renders the viewer markup, standalone viewer pages and
// optionally vendored viewer assets.
package swagger
