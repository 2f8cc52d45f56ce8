// Package s3 provides a blobstore.Store backed by AWS S3.
//
// Puts go through the transfer manager uploader so large library packs
// are uploaded in parts. Exists and Size use HeadObject, so they do not
// download the object.
package s3
