package cache

import (
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCache(t *testing.T) {
	Convey("Given an enabled cache with a controllable clock", t, func() {
		c := New(true)
		defer c.Close()
		now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
		c.now = func() time.Time { return now }

		etag := c.Set("players:all", []byte(`[{"player":"Saka"}]`), time.Hour)

		Convey("Then a fresh entry is served with its ETag", func() {
			data, got, ok := c.Get("players:all")
			So(ok, ShouldBeTrue)
			So(string(data), ShouldEqual, `[{"player":"Saka"}]`)
			So(got, ShouldEqual, etag)
			So(etag, ShouldStartWith, `W/"`)
		})

		Convey("When the TTL passes", func() {
			now = now.Add(time.Hour)

			Convey("Then the entry is gone and counted as expired", func() {
				_, _, ok := c.Get("players:all")
				So(ok, ShouldBeFalse)
				So(c.Stats(), ShouldResemble, Stats{Enabled: true, TotalKeys: 1, ActiveKeys: 0, ExpiredKeys: 1})

				c.evict()
				So(c.Stats().TotalKeys, ShouldEqual, 0)
			})
		})
	})

	Convey("Given a disabled cache", t, func() {
		c := New(false)
		etag := c.Set("k", []byte("v"), time.Hour)

		Convey("Then nothing is stored but ETags are still computed", func() {
			_, _, ok := c.Get("k")
			So(ok, ShouldBeFalse)
			So(etag, ShouldEqual, ComputeETag([]byte("v")))
		})
	})
}

func TestCheckETagMatch(t *testing.T) {
	Convey("If-None-Match matching", t, func() {
		So(CheckETagMatch("", `W/"a"`), ShouldBeFalse)
		So(CheckETagMatch("*", `W/"a"`), ShouldBeTrue)
		So(CheckETagMatch(`W/"b", W/"a"`, `W/"a"`), ShouldBeTrue)
		So(CheckETagMatch(`W/"b"`, `W/"a"`), ShouldBeFalse)
	})
}
