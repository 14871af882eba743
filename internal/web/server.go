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
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nabbar/rpm-archivist/internal/store"
)

const searchLimit = 150

// requestIDHeader is the header each response carries so a caller can
// correlate a request with the log line requestLogger emits for it.
const requestIDHeader = "X-Request-Id"

// Server wires the gin-gonic router onto the resolver.
type Server struct {
	db       *gorm.DB
	resolver *store.Resolver
	tmpl     *template.Template
}

// NewEngine builds the gin.Engine serving the route table.
func NewEngine(db *gorm.DB) *gin.Engine {
	s := &Server{db: db, resolver: store.NewResolver(db), tmpl: mustParseTemplates()}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger())
	r.NoRoute(s.notFound)

	r.GET("/assets/style.css", s.serveCSS)

	def := r.Group("/", cacheControl(cacheControlDefault))
	def.GET("/", s.index)
	def.GET("/artifact/:chksum", s.artifact)
	def.GET("/sbom/:chksum", s.sbom)
	def.GET("/diff/:from/:to", s.diff(false, false))
	def.GET("/diff-sorted/:from/:to", s.diff(true, false))
	def.GET("/diff-sorted-trimmed/:from/:to", s.diff(true, true))

	short := r.Group("/", cacheControl(cacheControlShort))
	short.GET("/search", s.search)
	short.GET("/stats", s.stats)

	return r
}

// requestID stamps every request with a correlation id, reusing an
// upstream-supplied one if present instead of always minting a fresh uuid.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logrus.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"request_id": c.GetString("request_id"),
		}).Info("http request")
	}
}

func (s *Server) serveCSS(c *gin.Context) {
	c.Data(http.StatusOK, "text/css; charset=utf-8", styleCSS)
}

func (s *Server) notFound(c *gin.Context) {
	c.Data(http.StatusNotFound, "text/plain; charset=utf-8", []byte("404 - file not found\n"))
}

func (s *Server) serverError(c *gin.Context, err error) {
	logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("server error\n"))
}
