package web

import (
	"github.com/go-chi/chi/v5"
	"github.com/kozaktomas/face-attend/internal/attendance"
	"github.com/kozaktomas/face-attend/internal/database"
	"github.com/kozaktomas/face-attend/internal/facematch"
	"github.com/kozaktomas/face-attend/internal/identity"
	"github.com/kozaktomas/face-attend/internal/web/handlers"
)

func (s *Server) setupRoutes(users database.UserStore, records database.AttendanceStore, faceIndex *facematch.Index) {
	resolver := identity.NewResolver(users)
	registrar := identity.NewRegistrar(users)
	service := attendance.NewService(resolver, records)

	usersHandler := handlers.NewUsersHandler(registrar, users, faceIndex)
	attendanceHandler := handlers.NewAttendanceHandler(service)
	facesHandler := handlers.NewFacesHandler(faceIndex, s.config.FaceMatch.Threshold)

	// Health check
	s.router.Get("/api/health", handlers.HealthCheck)

	// API routes. Paths match the original deployment and must stay stable.
	s.router.Route("/api", func(r chi.Router) {
		r.Post("/users/register", usersHandler.Register)
		r.Get("/users", usersHandler.List)

		r.Post("/attendance/mark", attendanceHandler.Mark)
		r.Post("/attendance/bulk", attendanceHandler.Bulk)
		r.Get("/attendance", attendanceHandler.List)

		r.Post("/faces/match", facesHandler.Match)
	})
}
