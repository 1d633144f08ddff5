package apkcfgregexp

func IsApplicationID(name string) bool {
	return ApplicationID.MatchString(name)
}

func IsSigningConfigName(name string) bool {
	return SigningConfigName.MatchString(name)
}

func IsJVMTarget(name string) bool {
	return JVMTarget.MatchString(name)
}

func IsSHA256Fingerprint(name string) bool {
	return SHA256Fingerprint.MatchString(name)
}

func IsAPK(name string) bool {
	return APK.MatchString(name)
}
