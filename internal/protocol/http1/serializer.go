package http1

import (
	"io"
	"strconv"

	"github.com/tofu345/http-library/http"
	"github.com/tofu345/http-library/http/status"
)

const protocol = "HTTP/1.1 "

// Serialize renders the response into its wire form and consumes it, so the same
// response can't be serialized twice.
func Serialize(response *http.Response) ([]byte, error) {
	if err := response.Consume(); err != nil {
		return nil, err
	}

	body := response.Body()
	buff := make([]byte, 0, 128+body.Len())
	buff = appendStatus(buff, response.Code)
	buff = appendHeaders(buff, response)
	buff = append(buff, body.Bytes()...)

	return append(buff, crlf...), nil
}

// Write serializes the response and writes it into w at once.
func Write(w io.Writer, response *http.Response) error {
	data, err := Serialize(response)
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

func appendStatus(buff []byte, code status.Code) []byte {
	buff = append(buff, protocol...)
	buff = strconv.AppendUint(buff, uint64(code), 10)
	buff = append(buff, ' ')
	buff = append(buff, status.Text(code)...)

	return append(buff, crlf...)
}

// appendHeaders writes the headers block. The empty line is only written if there's
// at least one header.
func appendHeaders(buff []byte, response *http.Response) []byte {
	headers := response.Headers()
	if headers.Empty() {
		return buff
	}

	for key, value := range headers.Pairs() {
		buff = append(buff, key...)
		buff = append(buff, headerSeparator...)
		buff = append(buff, value...)
		buff = append(buff, crlf...)
	}

	return append(buff, crlf...)
}
