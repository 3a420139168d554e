// Package assets loads the static HTML fragments that frame the generated page.
//
// # Directory Structure
//
// Fragments live side by side in one directory:
//
//	{basePath}/
//	├── index-start.html   # everything up to the open <nav>
//	└── index-end.html     # closing </main>, scripts, </body>
//
// Fragments are consumed byte-for-byte: no templating, no trimming.
//
// # Security
//
// Part names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
