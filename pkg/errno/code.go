package errno

// code=0 请求成功
// code=4xx 客户端请求错误
// code=5xx 服务器端错误
// code=2xxxx 业务处理错误码

type Errno struct {
	Code    int
	Message string
}

// Error 实现error接口
func (e *Errno) Error() string {
	return e.Message
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrParameterInvalid = &Errno{Code: 400, Message: "Invalid parameter %s"}
	ErrInvalidParam     = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrUnauthorized     = &Errno{Code: 401, Message: "Unauthorized"}
	ErrNotFound         = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrDatabase       = &Errno{Code: 501, Message: "Database error"}
	ErrUnknown        = &Errno{Code: 510, Message: "Unknown error"}

	// 业务错误码
	ErrMissingParam      = &Errno{Code: 20001, Message: "Missing required parameter"}
	ErrScriptTooLong     = &Errno{Code: 20002, Message: "Script exceeds allowed length"}
	ErrJobNotFound       = &Errno{Code: 20003, Message: "Job not found"}
	ErrJobUUIDRequired   = &Errno{Code: 20004, Message: "Job UUID is required"}
	ErrProjectRequired   = &Errno{Code: 20005, Message: "Project is required"}
	ErrInvalidJobStatus  = &Errno{Code: 20006, Message: "Invalid job status"}
	ErrJobAlreadyDone    = &Errno{Code: 20007, Message: "Job already finished"}
	ErrQueueItemMissing  = &Errno{Code: 20008, Message: "Queue item not found"}
	ErrQueueFull         = &Errno{Code: 20009, Message: "Stage queue is full"}
	ErrMissingAudio      = &Errno{Code: 20010, Message: "Missing synthesized audio url"}
	ErrImageNotUploaded  = &Errno{Code: 20011, Message: "Image listed in script but not uploaded"}
	ErrRecognizerFailed  = &Errno{Code: 20012, Message: "Speech recognizer failed"}
	ErrAlignmentMismatch = &Errno{Code: 20013, Message: "Alignment target/segment count mismatch"}
	ErrBackendFailed     = &Errno{Code: 20014, Message: "Stage backend call failed"}
	ErrPollExhausted     = &Errno{Code: 20015, Message: "Polling attempts exhausted"}
	ErrPayloadCorrupted  = &Errno{Code: 20016, Message: "Job payload document corrupted"}
)
