package domain

import "time"

// DownloadReason explains the outcome of a download attempt
type DownloadReason int

// download reasons, persisted as integers
const (
	ReasonNone DownloadReason = iota
	ReasonConnection
	ReasonHTTPStatus
	ReasonParser
	ReasonFileIO
)

// String returns reason name for logs and API
func (r DownloadReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonConnection:
		return "connection"
	case ReasonHTTPStatus:
		return "http status"
	case ReasonParser:
		return "parser"
	case ReasonFileIO:
		return "file io"
	default:
		return "unknown"
	}
}

// DownloadStatus records one completed download attempt
type DownloadStatus struct {
	ID             int64
	File           FeedFile
	Successful     bool
	Reason         DownloadReason
	CompletionDate time.Time
}
