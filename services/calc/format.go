package calc

// ResultWidth is the fixed number of digit positions a result is rendered
// into before leading zeros are suppressed. Ten positions cover the whole
// uint32 range.
const ResultWidth = 10

// Digits renders v as exactly ResultWidth zero-padded ASCII digits.
func Digits(v uint32) [ResultWidth]byte {
	var d [ResultWidth]byte
	for i := len(d) - 1; i >= 0; i-- {
		d[i] = byte('0' + v%10)
		v /= 10
	}
	return d
}

// AppendResult appends the decimal form of v to dst with leading zeros
// suppressed; a zero result is a single '0'.
func AppendResult(dst []byte, v uint32) []byte {
	d := Digits(v)
	i := 0
	for i < len(d)-1 && d[i] == '0' {
		i++
	}
	return append(dst, d[i:]...)
}

// AppendReply appends the full reply for a computed value: the terminator,
// the result and CRLF.
func AppendReply(dst []byte, v uint32) []byte {
	dst = append(dst, Terminator)
	dst = AppendResult(dst, v)
	return append(dst, '\r', '\n')
}
