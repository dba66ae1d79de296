// Package attendance 打卡容差引擎
//
// 纯函数实现：地理围栏校验、迟到/早退容差计算、下一次打卡类型判定、
// 同日重复判定，以及按日期区间汇总工时、应出勤工时与工时结余。
// 不访问存储，调用方负责取数并传入。
package attendance
