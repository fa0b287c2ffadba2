package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/Compras-api/internal/domain/repository"
)

// moduleCacheTTL tiempo que se recuerda la respuesta de company_modules por empresa y módulo.
const moduleCacheTTL = time.Minute

// ModuleService verifica qué módulos SaaS tiene activos una empresa.
// Es el único punto de la aplicación que conoce la lógica de activación de módulos.
type ModuleService struct {
	companyRepo repository.CompanyRepository
	ttl         time.Duration
	now         func() time.Time

	mu    sync.Mutex
	cache map[string]moduleEntry
}

type moduleEntry struct {
	active  bool
	expires time.Time
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(companyRepo repository.CompanyRepository) *ModuleService {
	return &ModuleService{
		companyRepo: companyRepo,
		ttl:         moduleCacheTTL,
		now:         time.Now,
		cache:       make(map[string]moduleEntry),
	}
}

// HasActiveModule informa si la empresa tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si la empresa no tiene el módulo contratado.
// Devuelve error solo ante fallos de infraestructura; los errores no se guardan en caché.
func (s *ModuleService) HasActiveModule(ctx context.Context, companyID, moduleName string) (bool, error) {
	if companyID == "" || moduleName == "" {
		return false, fmt.Errorf("module: companyID y moduleName son obligatorios")
	}
	key := companyID + "/" + moduleName
	now := s.now()

	s.mu.Lock()
	e, ok := s.cache[key]
	s.mu.Unlock()
	if ok && now.Before(e.expires) {
		return e.active, nil
	}

	active, err := s.companyRepo.HasActiveModule(ctx, companyID, moduleName)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	s.cache[key] = moduleEntry{active: active, expires: now.Add(s.ttl)}
	s.mu.Unlock()
	return active, nil
}
