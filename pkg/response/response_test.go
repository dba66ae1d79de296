package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	return resp
}

func TestOKPage_TotalPages(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OKPage(c, []int{1, 2}, 21, 1, 10)

	resp := decode(t, w)
	data := resp.Data.(map[string]interface{})
	pagination := data["pagination"].(map[string]interface{})
	if pagination["total_pages"].(float64) != 3 {
		t.Errorf("期望 3 页，实际: %v", pagination["total_pages"])
	}
}

func TestErrorShortcuts(t *testing.T) {
	tests := []struct {
		name   string
		call   func(c *gin.Context)
		status int
	}{
		{"conflict", func(c *gin.Context) { Conflict(c, 40901, "dup") }, http.StatusConflict},
		{"unprocessable", func(c *gin.Context) { Unprocessable(c, 42201, "seq") }, http.StatusUnprocessableEntity},
		{"too many", func(c *gin.Context) { TooManyRequests(c, 42901, "slow") }, http.StatusTooManyRequests},
		{"internal", func(c *gin.Context) { InternalError(c, "erro") }, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.call(c)
			if w.Code != tt.status {
				t.Errorf("期望状态码 %d，实际: %d", tt.status, w.Code)
			}
			if decode(t, w).Code == 0 {
				t.Error("错误响应 code 不应为 0")
			}
		})
	}
}

func TestAttachment(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	Attachment(c, "r.pdf", "application/pdf", []byte("%PDF"))
	if w.Header().Get("Content-Disposition") != `attachment; filename="r.pdf"` {
		t.Errorf("Content-Disposition 错误: %s", w.Header().Get("Content-Disposition"))
	}
	if w.Body.String() != "%PDF" {
		t.Errorf("响应体错误: %s", w.Body.String())
	}
}
