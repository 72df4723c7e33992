package combinator_test

import (
	"errors"
	"strings"
	"testing"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	. "github.com/smartystreets/goconvey/convey"
)

var bases = map[string]int{"first": 1, "second": 2, "third": 3, "first base": 10, "second base": 20}

func lookupBase(s string) (int, bool) {
	v, ok := bases[s]
	return v, ok
}

func TestNameHeuristics(t *testing.T) {
	Convey("Given candidate names", t, func() {
		Convey("Then plausible names pass", func() {
			for _, s := range []string{"Stanley Demir I", "Dr. Connor", "Bob E. Quiros", "Chalia Jr.", "Ayo O'Neil-Smith"} {
				So(c.IsName(s), ShouldBeTrue)
			}
		})

		Convey("Then fragments and clauses are rejected", func() {
			for _, s := range []string{
				"", "Dr", " Leading Space", "Double  Space", "Ellen Updog to 1B Elena",
				"Elena Karapetyan. Lance Green", "Bold <strong>Name", "Who, Me",
				"Lance Green out at second",
			} {
				So(c.IsName(s), ShouldBeFalse)
			}
		})

		Convey("When NameEOF fails", func() {
			_, _, err := c.NameEOF("Dr")

			Convey("Then the error matches ErrNoMatch", func() {
				So(errors.Is(err, c.ErrNoMatch), ShouldBeTrue)
			})
		})
	})
}

func TestSearchCombinators(t *testing.T) {
	Convey("Given a delimiter that also appears inside a name", t, func() {
		input := "Bob E. Quiros. Myra Roussel to third base."

		Convey("When using ParseTerminated", func() {
			rest, head, err := c.ParseTerminated(". ")(input)

			Convey("Then it stops at the first occurrence", func() {
				So(err, ShouldBeNil)
				So(head, ShouldEqual, "Bob E")
				So(rest, ShouldStartWith, "Quiros.")
			})
		})

		Convey("When using ParseAnd with a child that needs the real boundary", func() {
			child := c.AllConsuming(c.Preceded(c.NameUntil(" to "), c.Tag("third base.")))
			rest, out, err := c.ParseAnd(child, ". ")(input)

			Convey("Then it keeps searching until the child matches", func() {
				So(err, ShouldBeNil)
				So(rest, ShouldBeEmpty)
				So(out.First, ShouldEqual, "Bob E. Quiros")
				So(out.Second, ShouldEqual, "third base.")
			})
		})

		Convey("When no occurrence satisfies the child", func() {
			_, _, err := c.ParseAnd(c.Tag("nope"), ". ")(input)

			Convey("Then it fails after exhausting the input", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, c.ErrNoMatch), ShouldBeTrue)
			})
		})
	})

	Convey("Given a sentence split with a dotted name", t, func() {
		left := c.Preceded(c.Tag("To "), c.Rest)
		right := c.Preceded(c.Tag(" "), c.Verify("name sentence", c.Terminated(c.ParseTerminated(" waves"), c.Tag(".")), c.IsName))
		p := c.AllConsumingSentenceAnd(left, right)

		Convey("When the first period belongs to the name", func() {
			_, out, err := p("To Bob E. Quiros. Myra Roussel waves.")

			Convey("Then the split retries at the next period", func() {
				So(err, ShouldBeNil)
				So(out.First, ShouldEqual, "Bob E. Quiros")
				So(out.Second, ShouldEqual, "Myra Roussel")
			})
		})

		Convey("When the input has more periods than the attempt ceiling", func() {
			bounded := c.AllConsumingSentenceAnd(left, c.Tag(" end"))
			input := "To" + strings.Repeat(" a.", c.MaxSentenceAttempts+2) + " end"
			_, _, err := bounded(input)

			Convey("Then it gives up", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestWordLookups(t *testing.T) {
	Convey("Given a vocabulary with overlapping entries", t, func() {
		p := c.TryFromWordsMN(1, 2, "base", lookupBase)

		Convey("When both the one and two word forms are present", func() {
			rest, v, err := p("first base.")

			Convey("Then the longest candidate wins", func() {
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 10)
				So(rest, ShouldEqual, ".")
			})
		})

		Convey("When only a prefix of a word matches", func() {
			_, _, err := c.TryFromWord("base", lookupBase)("firsts")

			Convey("Then it does not substring match", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given number parsers", t, func() {
		Convey("Then values are range checked", func() {
			_, v, err := c.Uint8("255-")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 255)

			_, _, err = c.Uint8("256")
			So(err, ShouldNotBeNil)

			rest, n, err := c.Int16("+50 Awareness")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 50)
			So(rest, ShouldEqual, " Awareness")
		})
	})

	Convey("Given alternatives that overlap", t, func() {
		p := c.Alt(c.Value(1, c.Tag("Ball")), c.Value(4, c.Tag("Ball 4")))

		Convey("Then the earlier one wins", func() {
			rest, v, err := p("Ball 4.")
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 1)
			So(rest, ShouldEqual, " 4.")
		})
	})

	Convey("Given Many0 over a parser that can match empty", t, func() {
		p := c.Many0(c.Opt(c.Tag("x")))

		Convey("Then it stops instead of looping", func() {
			rest, out, err := p("xxy")
			So(err, ShouldBeNil)
			So(len(out), ShouldEqual, 2)
			So(rest, ShouldEqual, "y")
		})
	})
}
