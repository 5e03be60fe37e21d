// Package httpapi exposes the retrieval and text operations as a JSON API.
//
// Routes:
//
//	GET    /health
//	POST   /api/v1/ask
//	POST   /api/v1/rank
//	POST   /api/v1/keywords
//	POST   /api/v1/chunks
//	GET    /api/v1/instructions?org_id=&status=
//	POST   /api/v1/instructions
//	GET    /api/v1/instructions/{id}
//	GET    /api/v1/instructions/{id}/chunks
//	DELETE /api/v1/instructions/{id}
package httpapi
