package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

// 文件上传相关常量
const (
	MimePDF         = "application/pdf"
	MimeOctetStream = "application/octet-stream"
)

const (
	// 上传表单中的文件字段名
	SyllabusFormField = "syllabusFile"
	// 上下文中保存 JWT Claims 的 key
	ContextUserKey = "user"
)
