package session

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/okian/examprep/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestSession(t *testing.T) {
	Convey("Given a fresh session", t, func() {
		s := New("abc", time.Unix(0, 0))

		Convey("Then it has no quiz and no notice", func() {
			So(s.ID(), ShouldEqual, "abc")
			So(s.Quiz().Empty(), ShouldBeTrue)
			So(s.Notice(), ShouldBeNil)
		})

		Convey("When quizzes are set twice", func() {
			s.SetQuiz(model.ActiveQuiz{Text: "Q1", Topic: "Algebra"})
			s.SetQuiz(model.ActiveQuiz{Text: "Q2", Topic: "Physics"})

			Convey("Then the latest one wins", func() {
				So(s.Quiz(), ShouldResemble, model.ActiveQuiz{Text: "Q2", Topic: "Physics"})
			})
		})

		Convey("When a notice is recorded", func() {
			n := s.Notify(LevelWarning, "Please enter a quiz topic.")

			Convey("Then it is returned as a copy", func() {
				got := s.Notice()
				So(*got, ShouldResemble, n)
				got.Message = "changed"
				So(s.Notice().Message, ShouldEqual, "Please enter a quiz topic.")
			})
		})

		Convey("When touched with an older time", func() {
			s.Touch(time.Unix(100, 0))
			s.Touch(time.Unix(50, 0))

			Convey("Then last-seen never goes backwards", func() {
				So(s.LastSeen(), ShouldEqual, time.Unix(100, 0))
			})
		})
	})
}

func TestManager(t *testing.T) {
	Convey("Given a manager with a one-minute TTL", t, func() {
		clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
		m := NewManager(WithTTL(time.Minute), WithClock(clock.Now), WithSecureCookie(true))

		Convey("When two sessions are created", func() {
			a := m.Create()
			b := m.Create()

			Convey("Then they are distinct and both live", func() {
				So(a.ID(), ShouldNotEqual, b.ID())
				So(m.Count(), ShouldEqual, 2)
				got, ok := m.Get(a.ID())
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, a)
			})

			Convey("Then state set on one is invisible to the other", func() {
				a.SetQuiz(model.ActiveQuiz{Text: "Q", Topic: "T"})
				So(b.Quiz().Empty(), ShouldBeTrue)
			})

			Convey("And one stays active while the other idles past the TTL", func() {
				clock.Advance(40 * time.Second)
				_, ok := m.Get(a.ID())
				So(ok, ShouldBeTrue)
				clock.Advance(40 * time.Second)

				_, okA := m.Get(a.ID())
				_, okB := m.Get(b.ID())
				So(okA, ShouldBeTrue)
				So(okB, ShouldBeFalse)
				So(m.Count(), ShouldEqual, 1)
			})
		})

		Convey("When resolving a request without a cookie", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
			s, created := m.Resolve(req)

			Convey("Then a new session is created", func() {
				So(created, ShouldBeTrue)
				So(s, ShouldNotBeNil)
			})

			Convey("And a request with its cookie resolves to it", func() {
				req2 := httptest.NewRequest(http.MethodGet, "/api/session", nil)
				req2.AddCookie(m.Cookie(s))
				again, created2 := m.Resolve(req2)
				So(created2, ShouldBeFalse)
				So(again, ShouldEqual, s)
			})
		})

		Convey("When resolving an unknown cookie", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(&http.Cookie{Name: CookieName, Value: "stale"})
			s, created := m.Resolve(req)

			Convey("Then a new session replaces it", func() {
				So(created, ShouldBeTrue)
				So(s.ID(), ShouldNotEqual, "stale")
			})
		})

		Convey("Then the cookie is locked down", func() {
			c := m.Cookie(m.Create())
			So(c.Name, ShouldEqual, CookieName)
			So(c.HttpOnly, ShouldBeTrue)
			So(c.Secure, ShouldBeTrue)
			So(c.SameSite, ShouldEqual, http.SameSiteLaxMode)
			So(c.MaxAge, ShouldEqual, 60)
			So(c.Path, ShouldEqual, "/")
		})
	})
}

func TestSessionConcurrentUse(t *testing.T) {
	Convey("Given a session shared by overlapping requests", t, func() {
		s := New("x", time.Now())
		var wg sync.WaitGroup

		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.SetQuiz(model.ActiveQuiz{Text: "Q", Topic: "T"})
				s.Notify(LevelInfo, "n")
				_ = s.Quiz()
				_ = s.Notice()
				s.Touch(time.Now())
			}()
		}
		wg.Wait()

		Convey("Then the final state is consistent", func() {
			So(s.Quiz().Topic, ShouldEqual, "T")
			So(s.Notice().Level, ShouldEqual, LevelInfo)
		})
	})
}
