package config

const (
	MaxClassifyBodyBytes = 64 * 1024        // 64KB, JSON only
	MaxStoreBodyBytes    = 256 * 1024       // 256KB
	MaxImageBytes        = 10 * 1024 * 1024 // 10MB
)
