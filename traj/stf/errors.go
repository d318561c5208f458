package stf

import "fmt"

// Error fulfills rmsds.Error and rmsds.TrajError.
type Error struct {
	message  string
	filename string
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("stf file %s error: %s", err.filename, err.message)
}

// Decorate adds new information to the error and returns the accumulated
// decorations.
func (err Error) Decorate(deco string) []string {
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

// FileName returns the name of the trajectory file associated to the error.
func (err Error) FileName() string { return err.filename }

// Format returns the format of the trajectory ("stf").
func (err Error) Format() string { return "stf" }

// Critical returns true if the error is critical, false otherwise.
func (err Error) Critical() bool { return err.critical }

func errDecorate(err error, caller string) error {
	e, ok := err.(interface{ Decorate(string) []string })
	if ok {
		e.Decorate(caller)
	}
	return err
}

const (
	TrajUnIni      = "trajectory not initialized"
	NotEnoughSpace = "not enough space in the passed matrix"
	NilCoordinates = "given nil coordinates"
	WrongFormat    = "wrong format in the STF file or frame"
)

// lastFrameError implements rmsds.LastFrameError.
type lastFrameError struct {
	fileName string
	deco     []string
}

// NormalLastFrameTermination does nothing; it marks the error as harmless.
func (e lastFrameError) NormalLastFrameTermination() {}

func (e lastFrameError) FileName() string { return e.fileName }

func (e lastFrameError) Error() string { return "EOF" }

func (e lastFrameError) Critical() bool { return false }

func (e lastFrameError) Format() string { return "stf" }

func (e lastFrameError) Decorate(deco string) []string {
	if deco != "" {
		e.deco = append(e.deco, deco)
	}
	return e.deco
}

func newLastFrameError(filename, caller string) lastFrameError {
	return lastFrameError{fileName: filename, deco: []string{caller}}
}
