package serverconfig

import "fmt"

// StartupLoadError reports that the persisted override set could not be
// read or failed validation at boot.  The Service is serving the defaults
// when this error is returned.
type StartupLoadError struct {
	Err error
}

func (e *StartupLoadError) Error() string {
	return fmt.Sprintf("custom config load failed, serving defaults: %v", e.Err)
}

func (e *StartupLoadError) Unwrap() error { return e.Err }
