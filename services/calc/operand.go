package calc

// MaxDigits is the number of decimal digits an operand may hold.
const MaxDigits = 4

// Operand is a fixed-capacity run of ASCII digits.
type Operand struct {
	buf [MaxDigits]byte
	n   uint8
}

// Append adds digit c if there is room. It reports whether c was stored.
func (o *Operand) Append(c byte) bool {
	if !isDigit(c) || int(o.n) >= len(o.buf) {
		return false
	}
	o.buf[o.n] = c
	o.n++
	return true
}

func (o *Operand) Len() int      { return int(o.n) }
func (o *Operand) Full() bool    { return int(o.n) == len(o.buf) }
func (o *Operand) Clear()        { o.n = 0 }
func (o *Operand) Bytes() []byte { return o.buf[:o.n] }
func (o *Operand) String() string {
	return string(o.buf[:o.n])
}

// Value parses the digits as an unsigned base-10 integer. An empty operand
// is 0.
func (o *Operand) Value() uint32 {
	var v uint32
	for _, c := range o.buf[:o.n] {
		if !isDigit(c) {
			return 0
		}
		v = v*10 + uint32(c-'0')
	}
	return v
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
