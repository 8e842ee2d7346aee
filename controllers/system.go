package controllers

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
)

// SystemController serves liveness and the crash-test hook.
type SystemController struct{}

func NewSystemController() *SystemController {
	return &SystemController{}
}

type HealthResponse struct {
	Status string `json:"status"`
}

// RegisterRoutes adds the routes to the root web service, which must already have its path set.
func (ctl *SystemController) RegisterRoutes(ws *restful.WebService) {
	tags := []string{"system"}

	ws.Route(ws.GET("/healthz").To(ctl.healthHandler).
		Doc("Liveness probe").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusOK, "Service is up", HealthResponse{}))

	ws.Route(ws.GET("/crash-test").To(ctl.crashTestHandler).
		Doc("Panics on purpose to check that the server survives and recovers").
		Metadata(restfulspec.KeyOpenAPITags, tags).
		Returns(http.StatusInternalServerError, "Recovered crash", MessageResponse{}))
}

func (ctl *SystemController) healthHandler(_ *restful.Request, response *restful.Response) {
	_ = response.WriteHeaderAndJson(http.StatusOK, HealthResponse{Status: "ok"}, restful.MIME_JSON)
}

func (ctl *SystemController) crashTestHandler(_ *restful.Request, _ *restful.Response) {
	panic("server is going to crash")
}
