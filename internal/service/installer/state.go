package installer

const (
	envProvider       = "BARISTA_PROVIDER"
	envModel          = "BARISTA_MODEL"
	envOllamaBaseURL  = "BARISTA_OLLAMA_BASE_URL"
	envCustomBaseURL  = "BARISTA_CUSTOM_BASE_URL"
	envEnableTelegram = "BARISTA_ENABLE_TELEGRAM"
	envTelegramToken  = "BARISTA_TELEGRAM_TOKEN"
	envAllowedIDs     = "BARISTA_TELEGRAM_ALLOWED_IDS"
	envMaxTurns       = "BARISTA_MEMORY_MAX_TURNS"
	envHistoryFormat  = "BARISTA_HISTORY_FORMAT"
	envDebug          = "BARISTA_DEBUG"
)

type InstallState struct {
	EnvVars map[string]string
}

func NewInstallState() *InstallState {
	return &InstallState{
		EnvVars: make(map[string]string),
	}
}

func (s *InstallState) provider() string {
	return s.EnvVars[envProvider]
}
