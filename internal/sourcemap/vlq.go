package sourcemap

import (
	"errors"
	"strings"
)

const base64Chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

const (
	vlqShift    = 5
	vlqBase     = 1 << vlqShift
	vlqMask     = vlqBase - 1
	vlqContinue = vlqBase
)

var ErrBadVLQ = errors.New("malformed VLQ segment")

var base64Index = func() [128]int8 {
	var idx [128]int8
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(base64Chars); i++ {
		idx[base64Chars[i]] = int8(i)
	}
	return idx
}()

// encodeVLQ дописывает знаковое число в base64 VLQ: знак в младшем бите.
func encodeVLQ(sb *strings.Builder, v int) {
	u := v << 1
	if v < 0 {
		u = (-v << 1) | 1
	}
	for {
		digit := u & vlqMask
		u >>= vlqShift
		if u > 0 {
			digit |= vlqContinue
		}
		sb.WriteByte(base64Chars[digit])
		if u == 0 {
			return
		}
	}
}

// decodeVLQ читает одно число с начала s; возвращает число и остаток.
func decodeVLQ(s string) (int, string, error) {
	var (
		result int
		shift  uint
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 128 || base64Index[c] < 0 {
			return 0, s, ErrBadVLQ
		}
		digit := int(base64Index[c])
		result += (digit & vlqMask) << shift
		shift += vlqShift
		if digit&vlqContinue == 0 {
			if result&1 == 1 {
				return -(result >> 1), s[i+1:], nil
			}
			return result >> 1, s[i+1:], nil
		}
	}
	return 0, s, ErrBadVLQ
}
