package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

// 文件上传相关常量
const (
	MimeImage       = "image/"
	MaxAvatarSize   = 2 << 20
	AvatarDirectory = "avatars"
)

// 分页
const (
	DefaultPageSize = 10
	MaxPageSize     = 50
)

// gin 上下文键
const (
	ContextClaims = "user"
	ContextUser   = "currentUser"
)

var AllowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
