// Package rollback provides a best-effort undo for project initialization:
// it deletes the files a failed run created.
package rollback
