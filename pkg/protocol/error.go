package protocol

// ErrorMessage is the payload of an error frame, sent before the server
// closes a mirror connection.
type ErrorMessage struct {
	Code    string // Registered error code, e.g. "E110"
	Message string
}

// EncodeErrorMessage encodes an ErrorMessage.
func EncodeErrorMessage(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteString(em.Code)
	e.WriteString(em.Message)
	return e.Bytes()
}

// DecodeErrorMessage decodes an ErrorMessage. Errors are E121 errors.
func DecodeErrorMessage(data []byte) (*ErrorMessage, error) {
	d := NewDecoder(data)
	code, err := d.ReadString()
	if err != nil {
		return nil, wrapDecode(err, "error code")
	}
	message, err := d.ReadString()
	if err != nil {
		return nil, wrapDecode(err, "error message")
	}
	return &ErrorMessage{Code: code, Message: message}, nil
}

// Error implements the error interface.
func (em *ErrorMessage) Error() string {
	return em.Code + ": " + em.Message
}
