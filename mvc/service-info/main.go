package serviceInfo

import (
	serviceInfo "varhive/api/models/constants/service-info"

	"net/http"

	"github.com/labstack/echo"
)

func GetServiceInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"type": map[string]interface{}{
			"artifact": serviceInfo.SERVICE_ARTIFACT,
			"group":    serviceInfo.SERVICE_TYPE_NO_VER,
			"version":  serviceInfo.SERVICE_VERSION,
		},
		"id":          serviceInfo.SERVICE_ID,
		"name":        serviceInfo.SERVICE_NAME,
		"description": serviceInfo.SERVICE_DESCRIPTION,
		"version":     serviceInfo.SERVICE_VERSION,
	})
}
