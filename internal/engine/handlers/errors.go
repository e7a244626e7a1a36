package handlers

// Коды доменных ошибок. Клиенты ветвятся по ним, менять строки нельзя.
const (
	CodeMissingParam       = "MISSING_PARAM"
	CodeInvalidParam       = "INVALID_PARAM"
	CodeAgentNotFound      = "AGENT_NOT_FOUND"
	CodeAgentDead          = "AGENT_DEAD"
	CodeAgentExists        = "AGENT_EXISTS"
	CodeTargetNotFound     = "TARGET_NOT_FOUND"
	CodeTargetDead         = "TARGET_DEAD"
	CodePathNotFound       = "PATH_NOT_FOUND"
	CodeOutOfRange         = "OUT_OF_RANGE"
	CodeTargetInvulnerable = "TARGET_INVULNERABLE"
	CodePeacefulMode       = "PEACEFUL_MODE"
	CodeMissed             = "MISSED"
	CodeMethodNotFound     = "METHOD_NOT_FOUND"
	CodeInternalError      = "INTERNAL_ERROR"
)

var knownCodes = map[string]bool{
	CodeMissingParam:       true,
	CodeInvalidParam:       true,
	CodeAgentNotFound:      true,
	CodeAgentDead:          true,
	CodeAgentExists:        true,
	CodeTargetNotFound:     true,
	CodeTargetDead:         true,
	CodePathNotFound:       true,
	CodeOutOfRange:         true,
	CodeTargetInvulnerable: true,
	CodePeacefulMode:       true,
	CodeMissed:             true,
	CodeMethodNotFound:     true,
	CodeInternalError:      true,
}

// IsKnownCode - входит ли код в документированный набор
func IsKnownCode(code string) bool {
	return knownCodes[code]
}
