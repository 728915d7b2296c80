// Package archive takes a zip snapshot of translation directories before
// langsync rewrites them.
//
// The archive is written to backups/<unix-timestamp>-lang-backup.zip under
// the translation root. It contains the base language and every given
// language with paths relative to the root, plus directory entries. After
// writing, the archive is read back and must be larger than MinArchiveSize
// bytes; anything smaller is treated as a failed backup. Every failure wraps
// ErrArchive so callers can halt before touching any translation file.
//
//	a := archive.New(disk, archive.WithLogger(log))
//	res, err := a.Create(ctx, []string{"fr", "pt_BR"})
//	if err != nil {
//		return err // errors.Is(err, archive.ErrArchive)
//	}
//
// WithUploader copies the verified archive to S3-compatible storage as
// well, for an off-site copy.
package archive
