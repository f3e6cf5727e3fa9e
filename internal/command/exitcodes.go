package command

const (
	exitCodeSuccess      = 0
	exitCodeError        = 1
	exitCodeAlreadyExist = 2
	exitCodeBuildFailed  = 3
	exitCodeNotExist     = 4
)
