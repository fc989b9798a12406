package site

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSiteHandler(t *testing.T) {
	Convey("Given a site handler", t, func() {
		ctx := context.Background()
		mux := http.NewServeMux()

		Convey("When registering the site handler", func() {
			Register(ctx, mux)

			Convey("Then it should serve the page at /", func() {
				req := httptest.NewRequest("GET", "/", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "text/html")
				So(w.Header().Get("Cache-Control"), ShouldEqual, "no-cache")
				So(w.Body.String(), ShouldContainSubstring, "Generate Study Plan")
				So(w.Body.String(), ShouldContainSubstring, "Generate MCQ Quiz")
				So(w.Body.String(), ShouldContainSubstring, "Evaluate MCQs")
				So(w.Body.String(), ShouldContainSubstring, "Analyze Weak Areas")
			})

			Convey("And the script renders whole scores with one decimal", func() {
				req := httptest.NewRequest("GET", "/app.js", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "score.toFixed(1)")
				So(w.Body.String(), ShouldContainSubstring, "formatScore(r.score) + '/10'")
			})

			Convey("And it should serve the script and stylesheet", func() {
				for _, path := range []string{"/app.js", "/style.css"} {
					req := httptest.NewRequest("GET", path, nil)
					w := httptest.NewRecorder()
					mux.ServeHTTP(w, req)
					So(w.Code, ShouldEqual, http.StatusOK)
					So(w.Body.Len(), ShouldBeGreaterThan, 0)
				}
			})

			Convey("And it should 404 unknown assets", func() {
				req := httptest.NewRequest("GET", "/some-asset", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})

			Convey("And it should reject writes", func() {
				req := httptest.NewRequest("POST", "/", nil)
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, req)

				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestSiteHandlerWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		ctx := context.Background()

		Convey("When registering the site handler", func() {
			Convey("Then it should panic", func() {
				So(func() {
					Register(ctx, nil)
				}, ShouldPanic)
			})
		})
	})
}
