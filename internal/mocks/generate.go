package mocks

//go:generate mockery --name ProfileStore --srcpkg github.com/beacon-lab/project-beacon/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name MetricStore --srcpkg github.com/beacon-lab/project-beacon/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
//go:generate mockery --name EventStore --srcpkg github.com/beacon-lab/project-beacon/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
