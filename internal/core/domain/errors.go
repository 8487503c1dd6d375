package domain

import "errors"

// ErrAlreadyExists is an error thrown when entity already exists
var ErrAlreadyExists = errors.New("already exists")

// ErrDocumentNotFound is an error thrown when document is not found
var ErrDocumentNotFound = errors.New("document not found")

// ErrMunicipalityNotFound is an error thrown when municipality is not found
var ErrMunicipalityNotFound = errors.New("municipality not found")

// ErrInvalidTransition is an error thrown when a status change is not allowed from the current status
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrUploadInProgress is an error thrown when a document of the same type is still pending or processing
var ErrUploadInProgress = errors.New("document upload already in progress")

// ErrInvalidDocumentType is an error thrown when document type is neither LOA nor LDO
var ErrInvalidDocumentType = errors.New("invalid document type")

// ErrInvalidFileType is an error thrown when file type is invalid
var ErrInvalidFileType = errors.New("invalid file type")

// ErrFileSizeTooBig is an error thrown when file size is too big
var ErrFileSizeTooBig = errors.New("file size too big")

// ErrEmptyFile is an error thrown when the uploaded file has no content
var ErrEmptyFile = errors.New("file is empty")

// ErrInvalidFilename is an error thrown when the uploaded file name cannot be stored
var ErrInvalidFilename = errors.New("invalid filename")

// ErrInvalidYear is an error thrown when the budget year is out of range
var ErrInvalidYear = errors.New("invalid budget year")

// ErrInvalidMunicipality is an error thrown when municipality fields are invalid
var ErrInvalidMunicipality = errors.New("invalid municipality")

// ErrInvalidProgress is an error thrown when a progress update breaks the batch counters
var ErrInvalidProgress = errors.New("invalid progress")

// ErrLockNotAcquired is an error thrown when another worker owns the document
var ErrLockNotAcquired = errors.New("lock not acquired")

// ErrProcessingFailed is an error thrown when the processing worker reports a failure
var ErrProcessingFailed = errors.New("processing failed")

// ErrInvalidMessage is an error thrown when a queued message can never be handled
var ErrInvalidMessage = errors.New("invalid message")
