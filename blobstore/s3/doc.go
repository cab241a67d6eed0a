// Package s3 provides an Amazon S3 backend for the blobstore archive.
//
// Downloads use plain GetObject; uploads go through the SDK's upload
// manager so large edge files are transferred as concurrent multipart
// uploads.
package s3
