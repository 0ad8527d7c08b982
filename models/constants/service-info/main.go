package serviceInfo

import "fmt"

type ServiceInfo string

var (
	SERVICE_NAME        ServiceInfo = "VarHive Browser API"
	SERVICE_WELCOME     ServiceInfo = "Welcome to the VarHive variant annotation warehouse API!"
	SERVICE_DESCRIPTION ServiceInfo = "Flat variant annotation warehouse and browsing service."

	SERVICE_ARTIFACT    ServiceInfo = "varhive"
	SERVICE_VERSION     ServiceInfo = "1.0.0"
	SERVICE_TYPE_NO_VER ServiceInfo = ServiceInfo(fmt.Sprintf("org.varhive:%s", SERVICE_ARTIFACT))
	SERVICE_ID          ServiceInfo = SERVICE_TYPE_NO_VER
	SERVICE_TYPE        ServiceInfo = ServiceInfo(fmt.Sprintf("%s:%s", SERVICE_TYPE_NO_VER, SERVICE_VERSION))
)
