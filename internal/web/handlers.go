/*
 *  MIT License
 *
 *  Copyright (c) 2025 Nicolas JUHEL
 *
 *  Permission is hereby granted, free of charge, to any person obtaining a copy
 *  of this software and associated documentation files (the "Software"), to deal
 *  in the Software without restriction, including without limitation the rights
 *  to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 *  copies of the Software, and to permit persons to whom the Software is
 *  furnished to do so, subject to the following conditions:
 *
 *  The above copyright notice and this permission notice shall be included in all
 *  copies or substantial portions of the Software.
 *
 *  THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 *  IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 *  FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 *  AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 *  LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 *  OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 *  SOFTWARE.
 *
 */

package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nabbar/rpm-archivist/internal/errkind"
	"github.com/nabbar/rpm-archivist/internal/render"
)

func (s *Server) index(c *gin.Context) {
	c.Status(http.StatusOK)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(c.Writer, "index.html.tmpl", nil); err != nil {
		s.serverError(c, errkind.Wrap(errkind.TemplateRender, err))
	}
}

// artifact serves both the HTML page and the `.json` variant from one
// handler, branching on a trailing ".json" suffix -- matching
// original_source/src/web.rs's strip_suffix(".json") pattern.
func (s *Server) artifact(c *gin.Context) {
	raw := c.Param("chksum")
	chksum, asJSON := strings.CutSuffix(raw, ".json")

	ctx := c.Request.Context()
	art, err := s.resolver.Resolve(ctx, chksum)
	if errkind.IsKind(err, errkind.NotFound) {
		s.notFound(c)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}

	sbomRefs, err := s.resolver.SBOMRefsForArchive(ctx, art.Chksum)
	if err != nil {
		s.serverError(c, err)
		return
	}

	if asJSON {
		c.JSON(http.StatusOK, gin.H{"files": art.Files, "sbom_refs": sbomRefs})
		return
	}

	refs, err := s.resolver.AllRefsFor(ctx, art.Chksum)
	if err != nil {
		s.serverError(c, err)
		return
	}

	var alias string
	if art.Chksum != chksum {
		alias = art.Chksum
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	err = s.tmpl.ExecuteTemplate(c.Writer, "artifact.html.tmpl", gin.H{
		"Chksum": chksum,
		"Alias":  alias,
		"Refs":   refs,
		"Files":  render.RenderArchive(art.Files),
	})
	if err != nil {
		s.serverError(c, errkind.Wrap(errkind.TemplateRender, err))
	}
}

// sbom serves the raw `.txt` blob or an HTML wrapper. SBOM parsing itself
// is treated as an external collaborator and is not reimplemented here.
func (s *Server) sbom(c *gin.Context) {
	raw := c.Param("chksum")
	chksum, asText := strings.CutSuffix(raw, ".txt")

	ctx := c.Request.Context()
	sbom, err := s.resolver.GetSBOM(ctx, chksum)
	if errkind.IsKind(err, errkind.NotFound) {
		s.notFound(c)
		return
	}
	if err != nil {
		s.serverError(c, err)
		return
	}

	if asText {
		c.Data(http.StatusOK, "text/plain; charset=utf-8", sbom.Content)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	err = s.tmpl.ExecuteTemplate(c.Writer, "sbom.html.tmpl", gin.H{
		"Chksum":  chksum,
		"Kind":    sbom.Kind,
		"Content": string(sbom.Content),
	})
	if err != nil {
		s.serverError(c, errkind.Wrap(errkind.TemplateRender, err))
	}
}

func (s *Server) search(c *gin.Context) {
	query := c.Query("q")

	refs, err := s.resolver.Search(c.Request.Context(), query, searchLimit)
	if err != nil {
		s.serverError(c, err)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	err = s.tmpl.ExecuteTemplate(c.Writer, "search.html.tmpl", gin.H{"Query": query, "Refs": refs})
	if err != nil {
		s.serverError(c, errkind.Wrap(errkind.TemplateRender, err))
	}
}

func (s *Server) stats(c *gin.Context) {
	st, err := collectStats(c.Request.Context(), s.db)
	if err != nil {
		s.serverError(c, err)
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	err = s.tmpl.ExecuteTemplate(c.Writer, "stats.html.tmpl", st)
	if err != nil {
		s.serverError(c, errkind.Wrap(errkind.TemplateRender, err))
	}
}

// diff returns a handler bound to the sorted/trimmed toggles for one of
// the three diff route variants.
func (s *Server) diff(sorted, trimmed bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		from := c.Param("from")
		to := c.Param("to")

		ctx := c.Request.Context()
		a, err := s.resolver.Resolve(ctx, from)
		if errkind.IsKind(err, errkind.NotFound) {
			s.notFound(c)
			return
		}
		if err != nil {
			s.serverError(c, err)
			return
		}
		b, err := s.resolver.Resolve(ctx, to)
		if errkind.IsKind(err, errkind.NotFound) {
			s.notFound(c)
			return
		}
		if err != nil {
			s.serverError(c, err)
			return
		}

		patch, err := render.Diff(from, a.Files, to, b.Files, render.DiffOptions{Sorted: sorted, Trimmed: trimmed})
		if err != nil {
			s.serverError(c, err)
			return
		}

		c.Header("Content-Type", "text/html; charset=utf-8")
		err = s.tmpl.ExecuteTemplate(c.Writer, "diff.html.tmpl", gin.H{
			"From": from, "To": to, "Sorted": sorted, "Trimmed": trimmed, "Diff": patch,
		})
		if err != nil {
			s.serverError(c, errkind.Wrap(errkind.TemplateRender, err))
		}
	}
}
