// Package storage provides the file access used by langsync.
//
// Two abstractions live here. Disk is the filesystem view of a translation
// root: listing, reading and atomically replacing files by root-relative
// slash paths. Storage is S3-compatible object storage used to keep an
// off-site copy of backup archives.
//
// # Disks
//
// LocalDisk works on a real directory. Every write goes to a temporary
// file next to the target and is renamed into place, so a crash never
// leaves a half-written translation file behind. Paths are cleaned against
// the root and cannot escape it.
//
//	disk, err := storage.NewLocalDisk("lang")
//	if err != nil {
//		log.Fatal(err)
//	}
//	files, err := disk.ListFiles("en") // ["en/auth.php", "en/nested/x.php"]
//
// MemoryDisk keeps everything in a map and is used by tests:
//
//	disk := storage.NewMemoryDisk(map[string]string{
//		"en/auth.php": "<?php return ['a' => 'b'];",
//	})
//
// # Object Storage
//
// Create a client from Config. Bucket, AccessKey and SecretKey are required;
// Endpoint and PathStyle select an S3-compatible server such as MinIO:
//
//	store, err := storage.New(storage.Config{
//		Bucket:    "translations",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
//		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//		Prefix:    "acme",
//	})
//
//	info, err := storage.PutBytes(ctx, store, archive,
//		storage.WithKey("backups/1700000000-lang-backup.zip"),
//		storage.WithContentType("application/zip"),
//	)
//	head, err := store.Head(ctx, info.Key) // head.Size == len(archive)
//
// Every upload needs a key set with WithKey; Put returns ErrEmptyKey
// otherwise. Keys are split into segments and sanitized, and Config.Prefix
// is always prepended.
//
// # Errors
//
// All failures wrap one of the sentinel errors (ErrNotFound, ErrWriteFailed,
// ErrUploadFailed and so on). Use errors.Is to inspect them; the underlying
// SDK errors are formatted into the message but not exposed for errors.As.
package storage
