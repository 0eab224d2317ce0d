package coin

import (
	"math/big"
	"testing"

	"github.com/iov-one/lockbox/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInt128(t *testing.T) {
	Convey("Given 128 bit integers", t, func() {
		max, err := ParseInt128("170141183460469231731687303715884105727")
		So(err, ShouldBeNil)
		min, err := ParseInt128("-170141183460469231731687303715884105728")
		So(err, ShouldBeNil)
		one := NewInt128(1)

		Convey("Small values keep their sign", func() {
			So(NewInt128(-5).Sign(), ShouldEqual, -1)
			So(NewInt128(0).Sign(), ShouldEqual, 0)
			So(NewInt128(800).Sign(), ShouldEqual, 1)
			So(NewInt128(-5).String(), ShouldEqual, "-5")
			So(NewInt128(-5).Big().Int64(), ShouldEqual, -5)
		})

		Convey("Values larger than 64 bits round trip", func() {
			b, _ := new(big.Int).SetString("18446744073709551616000", 10)
			v, err := FromBig(b)
			So(err, ShouldBeNil)
			So(v.String(), ShouldEqual, "18446744073709551616000")
			So(v.Cmp(NewInt128(1<<62)), ShouldEqual, 1)
		})

		Convey("Arithmetic beyond the range overflows", func() {
			_, err := max.Add(one)
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
			_, err = min.Sub(one)
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
			_, err = min.Neg()
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
			_, err = ParseInt128("170141183460469231731687303715884105728")
			So(errors.ErrOverflow.Is(err), ShouldBeTrue)
		})

		Convey("Arithmetic inside the range is exact", func() {
			v, err := max.Sub(one)
			So(err, ShouldBeNil)
			So(v.Cmp(max), ShouldEqual, -1)
			v, err = v.Add(one)
			So(err, ShouldBeNil)
			So(v, ShouldResemble, max)
			v, err = NewInt128(200).Sub(NewInt128(1000))
			So(err, ShouldBeNil)
			So(v, ShouldResemble, NewInt128(-800))
		})

		Convey("Ordering treats negative numbers as smaller", func() {
			So(min.Cmp(NewInt128(-1)), ShouldEqual, -1)
			So(NewInt128(-1).Cmp(NewInt128(0)), ShouldEqual, -1)
			So(NewInt128(7).Cmp(NewInt128(7)), ShouldEqual, 0)
		})

		Convey("Garbage is rejected", func() {
			_, err := ParseInt128("12a")
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})

		Convey("JSON uses strings", func() {
			raw, err := NewInt128(-800).MarshalJSON()
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `"-800"`)
			var v Int128
			So(v.UnmarshalJSON([]byte(`1000`)), ShouldBeNil)
			So(v, ShouldResemble, NewInt128(1000))
		})
	})
}
