package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-signals/internal/datasource DataSource
//go:generate mockgen -destination=./mock_marker.go -package=mocks github.com/rxtech-lab/argo-signals/internal/marker Marker
//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-signals/pkg/marketdata/provider Provider
