package clients

import "time"

const (
	DEFAULT_MODEL_TIMEOUT = 2 * time.Second
	MAX_PROMPT_CHARS      = 200
	MAX_RESPONSE_BYTES    = 64 << 10
	USER_AGENT            = "reviewlens-client/1.0 (+https://github.com/spacesedan/reviewlens)"
)
