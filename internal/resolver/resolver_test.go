package resolver_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/minimble/internal/notedata"
	"github.com/go-ports/minimble/internal/paths"
	"github.com/go-ports/minimble/internal/resolver"
)

func newResolver(cwd string, tags map[string]string) resolver.Resolver {
	d := notedata.New()
	for dir, name := range tags {
		d.SetDirTag(dir, name)
	}
	return resolver.Resolver{
		Data:  d,
		Getwd: func() (string, error) { return cwd, nil },
	}
}

func TestResolve_LiteralToken(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name  string
		token string
	}{
		{"plain name", "bob"},
		{"name with odd characters", "../weird name!"},
		{"empty token", ""},
		{"double sentinel is literal", "@@"},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			r := resolver.Resolver{
				Data:  notedata.New(),
				Getwd: func() (string, error) { return "", errors.New("must not be called") },
			}
			got, err := r.Resolve(tc.token)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tc.token)
		})
	}
}

func TestResolve_CurrentSentinel(t *testing.T) {
	c := qt.New(t)

	cases := []struct {
		name string
		cwd  string
		tags map[string]string
		want string
	}{
		{
			name: "tag on cwd itself",
			cwd:  "/work/proj",
			tags: map[string]string{"/work/proj": "proj"},
			want: "proj",
		},
		{
			name: "tag on direct parent",
			cwd:  "/work/proj/src",
			tags: map[string]string{"/work/proj": "proj"},
			want: "proj",
		},
		{
			name: "tag far above cwd",
			cwd:  "/work/proj/a/b/c/d/e",
			tags: map[string]string{"/work/proj": "proj"},
			want: "proj",
		},
		{
			name: "nearest tagged ancestor wins",
			cwd:  "/work/proj/sub/deeper",
			tags: map[string]string{"/work": "work", "/work/proj/sub": "sub"},
			want: "sub",
		},
		{
			name: "tag on filesystem root",
			cwd:  "/a/b",
			tags: map[string]string{"/": "root"},
			want: "root",
		},
	}

	for _, tc := range cases {
		c.Run(tc.name, func(c *qt.C) {
			got, err := newResolver(tc.cwd, tc.tags).Resolve(resolver.Current)
			c.Assert(err, qt.IsNil)
			c.Assert(got, qt.Equals, tc.want)
		})
	}
}

func TestResolve_FailurePath(t *testing.T) {
	c := qt.New(t)

	c.Run("no tag anywhere fails with no tag found", func(c *qt.C) {
		_, err := newResolver("/work/proj", nil).Resolve(resolver.Current)
		c.Assert(err, qt.ErrorIs, resolver.ErrNoTagFound)
	})

	c.Run("tags only on unrelated or deeper dirs fail", func(c *qt.C) {
		tags := map[string]string{"/other": "x", "/work/proj/child": "y"}
		_, err := newResolver("/work/proj", tags).Resolve(resolver.Current)
		c.Assert(err, qt.ErrorIs, resolver.ErrNoTagFound)
	})

	c.Run("unreadable cwd fails with cwd unavailable", func(c *qt.C) {
		r := resolver.Resolver{
			Data:  notedata.New(),
			Getwd: func() (string, error) { return "", errors.New("gone") },
		}
		_, err := r.Resolve(resolver.Current)
		c.Assert(err, qt.ErrorIs, paths.ErrCwdUnavailable)
	})
}

func TestResolveFrom_ReportsTaggedDir(t *testing.T) {
	c := qt.New(t)

	r := newResolver("/work", map[string]string{"/work/proj": "proj"})

	name, dir, err := r.ResolveFrom("proj/src/pkg")
	c.Assert(err, qt.IsNil)
	c.Assert(name, qt.Equals, "proj")
	c.Assert(dir, qt.Equals, "/work/proj")
}
