package primitive

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// convertFunc converts a value of the pair's source kind into the canonical
// type of the pair's destination kind.
type convertFunc func(reflect.Value) (reflect.Value, error)

var functions map[ConversionPair]convertFunc

func init() {
	functions = map[ConversionPair]convertFunc{}

	for fromKind := KindEnum(1); int(fromKind) < KindTotal; fromKind++ {
		for toKind := KindEnum(1); int(toKind) < KindTotal; toKind++ {
			if fn := numberFunc(fromKind, toKind); fn != nil {
				functions[ConversionPair{fromKind, toKind}] = fn
			}
		}
	}

	// CategoryTextualBool
	functions[ConversionPair{KindString, KindBool}] = func(v reflect.Value) (reflect.Value, error) {
		b, err := parseBool(v.String())
		return reflect.ValueOf(b), err
	}
	functions[ConversionPair{KindBool, KindString}] = func(v reflect.Value) (reflect.Value, error) {
		return reflect.ValueOf(strconv.FormatBool(v.Bool())), nil
	}

	// CategoryDatetime
	functions[ConversionPair{KindString, KindTime}] = func(v reflect.Value) (reflect.Value, error) {
		t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(v.String()))
		return reflect.ValueOf(t), err
	}
	functions[ConversionPair{KindTime, KindString}] = func(v reflect.Value) (reflect.Value, error) {
		return reflect.ValueOf(asTime(v).Format(time.RFC3339Nano)), nil
	}

	// CategoryDuration
	functions[ConversionPair{KindString, KindDuration}] = func(v reflect.Value) (reflect.Value, error) {
		d, err := time.ParseDuration(strings.TrimSpace(v.String()))
		return reflect.ValueOf(d), err
	}
	functions[ConversionPair{KindDuration, KindString}] = func(v reflect.Value) (reflect.Value, error) {
		return reflect.ValueOf(time.Duration(v.Int()).String()), nil
	}

	// CategoryBigNumber, string side
	functions[ConversionPair{KindString, KindBigInt}] = func(v reflect.Value) (reflect.Value, error) {
		b, ok := new(big.Int).SetString(strings.TrimSpace(v.String()), 10)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%q is not an integer", v.String())
		}

		return reflect.ValueOf(b), nil
	}
	functions[ConversionPair{KindBigInt, KindString}] = func(v reflect.Value) (reflect.Value, error) {
		return reflect.ValueOf(asBigInt(v).String()), nil
	}
	functions[ConversionPair{KindString, KindDecimal}] = func(v reflect.Value) (reflect.Value, error) {
		d, err := decimal.NewFromString(strings.TrimSpace(v.String()))
		return reflect.ValueOf(d), err
	}
	functions[ConversionPair{KindDecimal, KindString}] = func(v reflect.Value) (reflect.Value, error) {
		return reflect.ValueOf(asDecimal(v).String()), nil
	}
	functions[ConversionPair{KindBigInt, KindDecimal}] = func(v reflect.Value) (reflect.Value, error) {
		return reflect.ValueOf(decimal.NewFromBigInt(asBigInt(v), 0)), nil
	}
	functions[ConversionPair{KindDecimal, KindBigInt}] = func(v reflect.Value) (reflect.Value, error) {
		return reflect.ValueOf(asDecimal(v).BigInt()), nil
	}

	// CategoryBytes
	functions[ConversionPair{KindString, KindBytes}] = func(v reflect.Value) (reflect.Value, error) {
		return reflect.ValueOf([]byte(v.String())), nil
	}
	functions[ConversionPair{KindBytes, KindString}] = func(v reflect.Value) (reflect.Value, error) {
		return reflect.ValueOf(string(v.Bytes())), nil
	}
	for kind := KindEnum(1); int(kind) < KindTotal; kind++ {
		if width := byteWidth(kind); width > 0 {
			functions[ConversionPair{kind, KindBytes}] = toBytesFunc(kind, width)
			functions[ConversionPair{KindBytes, kind}] = fromBytesFunc(kind, width)
		}
	}
}

// numberFunc covers every pair where both ends are scalar numbers, bools,
// times, durations or big numbers. It returns nil for other pairs.
func numberFunc(from, to KindEnum) convertFunc {
	switch {
	case from.IsNumber() && to.IsNumber():
		// CategorySafeNumber, CategoryUnsafeNumber: go conversion rules, truncating
		target := to.Type()
		return func(v reflect.Value) (reflect.Value, error) {
			return v.Convert(target), nil
		}

	case from.IsNumber() && to == KindString:
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(formatNumber(from, v)), nil
		}

	case from == KindString && to.IsNumber():
		target := to.Type()
		return func(v reflect.Value) (reflect.Value, error) {
			n, err := parseNumber(to, v.String())
			if err != nil {
				return reflect.Value{}, err
			}

			return n.Convert(target), nil
		}

	case from.IsNumber() && to == KindBool:
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(!isZeroNumber(v)), nil
		}

	case from == KindBool && to.IsNumber():
		target := to.Type()
		return func(v reflect.Value) (reflect.Value, error) {
			n := 0
			if v.Bool() {
				n = 1
			}

			return reflect.ValueOf(n).Convert(target), nil
		}

	case from.IsInteger() && to == KindTime:
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(time.Unix(asInt64(v), 0).UTC()), nil
		}

	case from == KindTime && to.IsInteger():
		target := to.Type()
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(asTime(v).Unix()).Convert(target), nil
		}

	case from.IsInteger() && to == KindDuration:
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(time.Duration(asInt64(v))), nil
		}

	case from == KindDuration && to.IsInteger():
		target := to.Type()
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(v.Int()).Convert(target), nil
		}

	case from.IsFloat() && to == KindDuration:
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(time.Duration(v.Float() * float64(time.Second))), nil
		}

	case from == KindDuration && to.IsFloat():
		target := to.Type()
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(time.Duration(v.Int()).Seconds()).Convert(target), nil
		}

	case from.IsNumber() && to == KindBigInt:
		return func(v reflect.Value) (reflect.Value, error) {
			b, err := numberToBigInt(from, v)
			return reflect.ValueOf(b), err
		}

	case from == KindBigInt && to.IsNumber():
		target := to.Type()
		return func(v reflect.Value) (reflect.Value, error) {
			b := asBigInt(v)
			switch {
			case to.IsSigned():
				return reflect.ValueOf(b.Int64()).Convert(target), nil
			case to.IsUnsigned():
				return reflect.ValueOf(b.Uint64()).Convert(target), nil
			default:
				f, _ := new(big.Float).SetInt(b).Float64()
				return reflect.ValueOf(f).Convert(target), nil
			}
		}

	case from.IsNumber() && to == KindDecimal:
		return func(v reflect.Value) (reflect.Value, error) {
			d, err := numberToDecimal(from, v)
			return reflect.ValueOf(d), err
		}

	case from == KindDecimal && to.IsNumber():
		target := to.Type()
		return func(v reflect.Value) (reflect.Value, error) {
			d := asDecimal(v)
			switch {
			case to.IsSigned():
				return reflect.ValueOf(d.IntPart()).Convert(target), nil
			case to.IsUnsigned():
				return reflect.ValueOf(d.BigInt().Uint64()).Convert(target), nil
			default:
				return reflect.ValueOf(d.InexactFloat64()).Convert(target), nil
			}
		}
	}

	return nil
}

func formatNumber(kind KindEnum, v reflect.Value) string {
	switch {
	case kind.IsSigned():
		return strconv.FormatInt(v.Int(), 10)
	case kind.IsUnsigned():
		return strconv.FormatUint(v.Uint(), 10)
	default:
		return strconv.FormatFloat(v.Float(), 'f', -1, kind.Bits())
	}
}

// parseNumber parses s as a locale independent decimal number of kind.
func parseNumber(kind KindEnum, s string) (reflect.Value, error) {
	s = strings.TrimSpace(s)

	switch {
	case kind.IsSigned():
		n, err := strconv.ParseInt(s, 10, kind.Bits())
		return reflect.ValueOf(n), err
	case kind.IsUnsigned():
		n, err := strconv.ParseUint(s, 10, kind.Bits())
		return reflect.ValueOf(n), err
	default:
		n, err := strconv.ParseFloat(s, kind.Bits())
		return reflect.ValueOf(n), err
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0":
		return false, nil
	}

	return false, fmt.Errorf("%q is not a boolean value", s)
}

func isZeroNumber(v reflect.Value) bool {
	switch {
	case v.CanInt():
		return v.Int() == 0
	case v.CanUint():
		return v.Uint() == 0
	default:
		return v.Float() == 0
	}
}

func asInt64(v reflect.Value) int64 {
	if v.CanUint() {
		return int64(v.Uint())
	}

	return v.Int()
}

func asTime(v reflect.Value) time.Time {
	return v.Interface().(time.Time)
}

func asBigInt(v reflect.Value) *big.Int {
	b, _ := v.Interface().(*big.Int)
	if b == nil {
		return new(big.Int)
	}

	return b
}

func asDecimal(v reflect.Value) decimal.Decimal {
	return v.Interface().(decimal.Decimal)
}

func numberToBigInt(kind KindEnum, v reflect.Value) (*big.Int, error) {
	switch {
	case kind.IsSigned():
		return big.NewInt(v.Int()), nil
	case kind.IsUnsigned():
		return new(big.Int).SetUint64(v.Uint()), nil
	}

	f := v.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%v has no integer representation", f)
	}

	b, _ := big.NewFloat(f).Int(nil)

	return b, nil
}

func numberToDecimal(kind KindEnum, v reflect.Value) (decimal.Decimal, error) {
	switch {
	case kind.IsSigned():
		return decimal.NewFromInt(v.Int()), nil
	case kind.IsUnsigned():
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v.Uint()), 0), nil
	}

	f := v.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, fmt.Errorf("%v has no decimal representation", f)
	}

	if kind == KindFloat32 {
		return decimal.NewFromFloat32(float32(f)), nil
	}

	return decimal.NewFromFloat(f), nil
}

// byteWidth is the size of the big-endian layout used for kind, 0 when kind
// has no fixed width layout. Big numbers use the 64 bit layout.
func byteWidth(kind KindEnum) int {
	switch {
	case kind == KindBool:
		return 1
	case kind == KindInt, kind == KindUint, kind.IsBig():
		return 8
	case kind.IsNumber():
		return kind.Bits() / 8
	}

	return 0
}

func toBytesFunc(kind KindEnum, width int) convertFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		var bits uint64

		switch {
		case kind == KindBool:
			if v.Bool() {
				bits = 1
			}
		case kind.IsSigned():
			bits = uint64(v.Int())
		case kind.IsUnsigned():
			bits = v.Uint()
		case kind == KindFloat32:
			bits = uint64(math.Float32bits(float32(v.Float())))
		case kind == KindFloat64:
			bits = math.Float64bits(v.Float())
		case kind == KindBigInt:
			bits = uint64(asBigInt(v).Int64())
		case kind == KindDecimal:
			bits = math.Float64bits(asDecimal(v).InexactFloat64())
		}

		buf := make([]byte, width)
		putUint(buf, bits)

		return reflect.ValueOf(buf), nil
	}
}

func fromBytesFunc(kind KindEnum, width int) convertFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		buf := v.Bytes()
		if len(buf) < width {
			return reflect.Value{}, fmt.Errorf("not enough bytes to represent a %s: at least %d bytes are required",
				kind.Type(), width)
		}

		bits := readUint(buf[:width])

		switch {
		case kind == KindBool:
			return reflect.ValueOf(bits != 0), nil
		case kind.IsInteger():
			// conversion truncates to the kind's width and restores the sign
			return reflect.ValueOf(bits).Convert(kind.Type()), nil
		case kind == KindFloat32:
			return reflect.ValueOf(math.Float32frombits(uint32(bits))), nil
		case kind == KindFloat64:
			return reflect.ValueOf(math.Float64frombits(bits)), nil
		case kind == KindBigInt:
			return reflect.ValueOf(big.NewInt(int64(bits))), nil
		default:
			d, err := numberToDecimal(KindFloat64, reflect.ValueOf(math.Float64frombits(bits)))
			return reflect.ValueOf(d), err
		}
	}
}

func putUint(buf []byte, bits uint64) {
	switch len(buf) {
	case 1:
		buf[0] = byte(bits)
	case 2:
		binary.BigEndian.PutUint16(buf, uint16(bits))
	case 4:
		binary.BigEndian.PutUint32(buf, uint32(bits))
	default:
		binary.BigEndian.PutUint64(buf, bits)
	}
}

func readUint(buf []byte) uint64 {
	switch len(buf) {
	case 1:
		return uint64(buf[0])
	case 2:
		return uint64(binary.BigEndian.Uint16(buf))
	case 4:
		return uint64(binary.BigEndian.Uint32(buf))
	default:
		return binary.BigEndian.Uint64(buf)
	}
}
