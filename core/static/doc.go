// Package static serves files from an fs.FS or a directory through the
// router's wildcard parameter.
//
//	//go:embed public
//	var public embed.FS
//
//	sub, _ := fs.Sub(public, "public")
//	r.Get("/assets/*", static.FS[*router.Context](sub))
//	r.Get("/favicon.ico", static.File[*router.Context]("web/favicon.ico"))
//	r.Get("/app/*", static.SPA[*router.Context](os.DirFS("web/dist")))
//
// The file name is the wildcard capture, so the mount prefix never reaches
// the filesystem and no prefix stripping is needed. Directories are served
// through their index.html and never listed. Missing files surface as
// response.ErrNotFound through the router's error handler.
package static
