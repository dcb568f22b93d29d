package dto

// DeleteRecordQuery carries the delete confirmation flag.
type DeleteRecordQuery struct {
	Confirm bool `form:"confirm"`
}

// ExportHistoryRequest selects the export format.
type ExportHistoryRequest struct {
	Format string `json:"format" form:"format"`
	Search string `json:"search" form:"search"`
}

// MediaUploadForm holds the non-file fields of a media upload.
type MediaUploadForm struct {
	Folder string `form:"folder"`
}
