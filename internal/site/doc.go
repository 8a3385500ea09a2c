// Package site is a small markdown documentation builder.
//
// A build discovers markdown files under the source directory, renders them
// with goldmark into a pongo2 page shell and writes them to the output tree
// following the docpath placement rules. Extensions hook into the build
// through a Registry handed to Extension.Setup: they register fenced-block
// directives, adjust page contexts, contribute whole pages and run work once
// all pages are written.
//
// Directives use the MyST fence syntax:
//
//	```{name} argument
//	:option: value
//	body
//	```
package site
