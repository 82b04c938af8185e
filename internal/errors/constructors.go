package errors

func ConfigNotFound(path string) *DistError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *DistError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration file invalid").
		WithContext("path", path)
}

// MissingFlag reports a required invocation parameter that was not supplied.
func MissingFlag(flag string) *DistError {
	return New(CategoryValidation, SeverityFatal, "missing required flag --"+flag).
		WithContext("flag", flag)
}

func ValidationFailed(field, reason string) *DistError {
	return New(CategoryValidation, SeverityFatal, "validation failed: "+field+": "+reason).
		WithContext("field", field).
		WithContext("reason", reason)
}

// Build pipeline errors

func BuildFailed(stage string, cause error) *DistError {
	return Wrap(cause, CategoryBuild, SeverityFatal, "build failed").
		WithContext("stage", stage)
}

func FileSystemError(operation, path string, cause error) *DistError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, operation+" failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// LinkFailed reports a non-zero exit from the runtime link tool.
func LinkFailed(tool string, cause error) *DistError {
	return Wrap(cause, CategoryRuntime, SeverityFatal, "runtime image link failed").
		WithContext("tool", tool)
}

func ArchiveFailed(path string, cause error) *DistError {
	return Wrap(cause, CategoryArchive, SeverityFatal, "archive creation failed").
		WithContext("path", path)
}

// Network errors

func PublishFailed(target string, cause error) *DistError {
	return Wrap(cause, CategoryNetwork, SeverityWarning, "publish failed").
		WithContext("target", target).
		Transient()
}

func NetworkTimeout(url string, cause error) *DistError {
	return Wrap(cause, CategoryNetwork, SeverityWarning, "network timeout").
		WithContext("url", url).
		Transient()
}

// InternalError reports a failure that no user input can cause, such as a
// corrupt history database or an unencodable manifest.
func InternalError(message string, cause error) *DistError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
