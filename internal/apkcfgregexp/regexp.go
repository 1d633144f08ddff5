package apkcfgregexp

import "regexp"

var (
	ApplicationID     = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*(\.[a-zA-Z][a-zA-Z0-9_]*)+$`)
	SigningConfigName = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]{0,63}$`)
	JVMTarget         = regexp.MustCompile(`^(1\.8|11|17|21)$`)
	SHA256Fingerprint = regexp.MustCompile(`^([0-9a-fA-F]{2}:){31}[0-9a-fA-F]{2}$`)

	APK = regexp.MustCompile(`(?i)^[\w/.-]+\.apk$`)
)
