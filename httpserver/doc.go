/*
Package httpserver implements the inspection HTTP server for the store
configuration cache.

It exposes the resolved configurations of a running process, lets operators
resolve new descriptors through the shared cache, and lists the registered
backend families and authorization providers. Credential-looking parameter
values are redacted in all responses.

API Endpoints:

  - GET  /api/v1/configs                   - descriptors of all resolved configurations
  - GET  /api/v1/configs/show              - one configuration by descriptor
  - POST /api/v1/configs/resolve           - resolve a descriptor or document locator
  - GET  /api/v1/families                  - registered backend families
  - GET  /api/v1/authorization/providers   - registered authorization providers

Diagnostics:

  - GET /livez, /readyz                    - health checks
  - GET /drain, /undrain                   - readiness toggling for rollouts
  - /debug                                 - pprof, when enabled
*/
package httpserver
